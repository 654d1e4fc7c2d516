//go:build !linux && !darwin && !windows

package notify

// platformNotify is a no-op on unsupported platforms.
func platformNotify(title, body string, opts Options) error {
	return nil
}
