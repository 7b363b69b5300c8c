package constants

type Option = option

func WithGetenv(getenv func(string) string) option {
	return func(o *options) {
		o.getenv = getenv
	}
}
