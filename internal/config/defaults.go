package config

const (
	defaultImagesDir    = "images"
	defaultOriginalsDir = "images/originals"
	defaultSiteDir      = "site"
	defaultManifest     = "site/data/sections.json"
	defaultImagesURL    = "images"
	defaultSiteTitle    = "Karl Dukstein"
	defaultPreviewBind  = "127.0.0.1:8001"
	defaultDebounceMS   = 500
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// DefaultCategories returns the fixed gallery sections in navigation order.
func DefaultCategories() []Category {
	return []Category{
		{Key: "frack-county", Label: "Frack County"},
		{Key: "dnc", Label: "Democratic National Convention"},
		{Key: "weld-county", Label: "Weld County Documentary Project"},
		{Key: "patriotism", Label: "Patriotism"},
		{Key: "portraits", Label: "Portraits"},
		{Key: "misc", Label: "Misc Work"},
		{Key: "student-work", Label: "Student Work"},
	}
}

// DefaultPresets returns the variant presets produced by the codec stages.
func DefaultPresets() []Preset {
	return []Preset{
		{Label: "thumb", Width: 600, Quality: 80},
		{Label: "medium", Width: 1200, Quality: 85},
		{Label: "full", Width: 1920, Quality: 90},
	}
}

// Default returns a Config populated with repository defaults. Categories and
// presets are left empty so a config file can replace them wholesale;
// normalize fills them in when the file does not.
func Default() Config {
	return Config{
		Root: ".",
		Paths: Paths{
			ImagesDir:    defaultImagesDir,
			OriginalsDir: defaultOriginalsDir,
			SiteDir:      defaultSiteDir,
			Manifest:     defaultManifest,
			ImagesURL:    defaultImagesURL,
		},
		Site: Site{
			Title: defaultSiteTitle,
		},
		Preview: Preview{
			Bind: defaultPreviewBind,
		},
		Watch: Watch{
			DebounceMS: defaultDebounceMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
