package config

import "github.com/runnerr0/textwrapped/internal/analysis"

// DefaultWhatsAppPaths are the places the macOS WhatsApp clients keep
// ChatStorage.sqlite, most common first.
func DefaultWhatsAppPaths() []string {
	return []string{
		"~/Library/Group Containers/group.net.whatsapp.WhatsApp.shared/ChatStorage.sqlite",
		"~/Library/Containers/com.whatsapp/Data/Library/Application Support/WhatsApp/ChatStorage.sqlite",
		"~/Library/Containers/desktop.WhatsApp/Data/Library/Application Support/WhatsApp/ChatStorage.sqlite",
	}
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Year:        0,
			MinMessages: 100,
			Timezone:    "Local",
		},
		Sources: SourcesConfig{
			IMessage: IMessageSourceConfig{
				Enabled: true,
				Path:    "~/Library/Messages/chat.db",
			},
			WhatsApp: WhatsAppSourceConfig{
				Enabled: true,
				Paths:   DefaultWhatsAppPaths(),
			},
		},
		Limits: analysis.DefaultLimits(),
		Analysis: AnalysisConfig{
			ExcludeShortCodes: false,
			ContactsFile:      "",
			Emojis:            append([]string(nil), analysis.DefaultEmojis...),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
		Output: OutputConfig{
			Path: "",
		},
		Metrics: MetricsConfig{
			File: "",
		},
	}
}
