package main

import (
	"net/http"
	"time"
)

const timeoutBody = `<html lang="en">
<head><title>Timeout</title></head>
<body>
<h1>The trail went cold</h1>
<div>
    <button type="button">
        <span>Retry</span>
        <script>
          document.currentScript.parentElement.addEventListener('click', function () {
            location.reload();
          });
        </script>
    </button>
</div>
</body>
</html>
`

// timeoutHandler responds with a 503 Service Unavailable error when the handler does not meet the deadline.
func timeoutHandler(h http.Handler, timeout time.Duration) http.Handler {
	return http.TimeoutHandler(h, timeout, timeoutBody)
}
