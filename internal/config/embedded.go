package config

// EmbeddedKinopoiskKey is injected at build time via ldflags and used when
// neither the environment nor the config file provide a key.
//
// Build with:
//
//	go build -ldflags "-X 'github.com/absolutecinema/absolutecinema/internal/config.EmbeddedKinopoiskKey=xxx'"
var EmbeddedKinopoiskKey string
