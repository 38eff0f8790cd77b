//go:build !(linux || darwin || freebsd)

package native

func openPlugin(string) (lookupFunc, error) {
	return nil, ErrPluginsUnsupported
}
