package pos

import "errors"

// remoteDetail is implemented by gateway errors that carry the server's message.
type remoteDetail interface {
	ErrorDetail() string
}

// detailOf extracts the server-provided detail from err, or "" if there is none.
func detailOf(err error) string {
	var rd remoteDetail
	if errors.As(err, &rd) {
		return rd.ErrorDetail()
	}
	return ""
}
