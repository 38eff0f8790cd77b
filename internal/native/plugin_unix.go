//go:build linux || darwin || freebsd

package native

import "plugin"

func openPlugin(path string) (lookupFunc, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return func(symbol string) (any, error) {
		return p.Lookup(symbol)
	}, nil
}
