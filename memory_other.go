//go:build !linux

package uniset

func init() {
	DefaultProvider = MemclrProvider{}
}
