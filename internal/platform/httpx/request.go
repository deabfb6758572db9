package httpx

import (
	"net/http"
	"strconv"
)

// ActorID reads the acting user from the X-Actor-ID header. Zero when the
// header is absent or malformed; authentication sits in front of this
// service and is trusted to set it.
func ActorID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.Header.Get("X-Actor-ID"), 10, 64)
	return id
}
