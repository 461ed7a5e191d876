package stylemap

import "github.com/okian/stylemap/internal/domain/champion"

// Default engine configuration.
const (
	DefaultAverageGameMinutes = 31.0
	DefaultMinGames           = 4
	DefaultCanvasWidth        = 960.0
	DefaultCanvasHeight       = 560.0
)

// Settings is the resolved engine configuration.
type Settings struct {
	AverageGameMinutes float64 `json:"avgGameMinutes"`
	MinGames           int     `json:"minGames"`
	CanvasWidth        float64 `json:"canvasWidth"`
	CanvasHeight       float64 `json:"canvasHeight"`
}

// DefaultSettings returns the default engine configuration.
func DefaultSettings() Settings {
	return Settings{
		AverageGameMinutes: DefaultAverageGameMinutes,
		MinGames:           DefaultMinGames,
		CanvasWidth:        DefaultCanvasWidth,
		CanvasHeight:       DefaultCanvasHeight,
	}
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithAverageGameMinutes sets the average game length used for per-minute stats.
func WithAverageGameMinutes(minutes float64) Option {
	return func(e *Engine) {
		if minutes > 0 {
			e.settings.AverageGameMinutes = minutes
		}
	}
}

// WithMinGames sets the minimum games a champion needs to enter the map.
func WithMinGames(games int) Option {
	return func(e *Engine) {
		if games >= 0 {
			e.settings.MinGames = games
		}
	}
}

// WithCanvas sets the layout canvas size. Dimensions must leave room for
// the layout margin on both sides.
func WithCanvas(width, height float64) Option {
	return func(e *Engine) {
		if width > 2*layoutMargin && height > 2*layoutMargin {
			e.settings.CanvasWidth = width
			e.settings.CanvasHeight = height
		}
	}
}

// WithSettings replaces the whole configuration, keeping defaults for invalid fields.
func WithSettings(s Settings) Option {
	return func(e *Engine) {
		WithAverageGameMinutes(s.AverageGameMinutes)(e)
		WithMinGames(s.MinGames)(e)
		WithCanvas(s.CanvasWidth, s.CanvasHeight)(e)
	}
}

// WithResolver sets the champion profile resolver.
func WithResolver(r champion.Resolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.resolver = r
		}
	}
}
