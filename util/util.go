package util

// ErrWrap returns a function which yields the given value,
// or fallback if the accompanying error is set:
// > util.ErrWrap("wav")(cmd.Flags().GetString("format"))
func ErrWrap[T any](fallback T) func(T, error) T {
	return func(value T, err error) T {
		if err != nil {
			return fallback
		}
		return value
	}
}

// ErrSuppress explicitly drops an error nobody could act on
func ErrSuppress(_ error) {}
