package config

const (
	defaultTargetDir      = "poems"
	defaultStagingDir     = "~/.local/share/anthologiser/staging"
	defaultLinkBase       = "/"
	defaultArchiveBaseURL = "http://localhost:8080/"
	defaultMiscFolder     = "@misc"
	defaultIdentityMarker = "%"
	defaultBucketFactor   = 2.0
	defaultMinBuckets     = 1
	defaultMaxPrefixLen   = 8
	minMaxPrefixLen       = 7
	defaultMarker         = "***"
	defaultVersionRole    = "hversion"
	defaultVersionPrefix  = "H"
	defaultSourceRole     = "source"
	defaultCatalogFormat  = CatalogFormatMVD
	defaultStagingMaxAge  = 24
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Catalog encodings accepted in catalog.format.
const (
	CatalogFormatMVD  = "mvd"
	CatalogFormatHTML = "html"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TargetDir:  defaultTargetDir,
			StagingDir: defaultStagingDir,
		},
		Links: Links{
			Base:           defaultLinkBase,
			ArchiveBaseURL: defaultArchiveBaseURL,
		},
		Layout: Layout{
			MiscFolder:     defaultMiscFolder,
			IdentityMarker: defaultIdentityMarker,
			BucketFactor:   defaultBucketFactor,
			MinBuckets:     defaultMinBuckets,
			MaxPrefixLen:   defaultMaxPrefixLen,
		},
		Split: Split{
			Marker:        defaultMarker,
			VersionRole:   defaultVersionRole,
			VersionPrefix: defaultVersionPrefix,
			SourceRole:    defaultSourceRole,
			ConvertNotes:  true,
		},
		Catalog: Catalog{
			Format: defaultCatalogFormat,
		},
		Staging: Staging{
			Compress:    true,
			MaxAgeHours: defaultStagingMaxAge,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
