package middleware

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
)

// RequestLogger writes one line per request to out, including requests no
// route matched.
func RequestLogger(out io.Writer, next http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(out, next, writeRequestLog)
}

func writeRequestLog(w io.Writer, p handlers.LogFormatterParams) {
	fmt.Fprintf(w, "%s %s %s %d %d %s\n",
		p.TimeStamp.Format("2006/01/02 15:04:05"), p.Request.Method, p.URL.Path,
		p.StatusCode, p.Size, time.Since(p.TimeStamp))
}
