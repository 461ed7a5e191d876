package api

import "github.com/okian/stylemap/pkg/logger"

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxBodyBytes limits request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithMaxRecords caps the records accepted by POST /stylemap.
func WithMaxRecords(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxRecords = n
		}
	}
}

// WithLogger sets the request error logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
