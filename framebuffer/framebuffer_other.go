//go:build !linux

package framebuffer

// Open is only supported on Linux.
func Open(_ string, _ *Config) (*Device, error) {
	return nil, ErrNotSupported
}
