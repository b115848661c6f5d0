//go:build !linux

package notify

func send(title, body string) error {
	return nil
}
