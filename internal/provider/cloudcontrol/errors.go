package cloudcontrol

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// APIError is a vendor Status document with result ERROR. The API reports
// business failures this way on 200 and 4xx responses alike.
type APIError struct {
	Operation  string
	ResultCode string
	Detail     string
}

func (e *APIError) Error() string {
	if e.ResultCode != "" {
		return fmt.Sprintf("%s (%s)", e.Detail, e.ResultCode)
	}
	return e.Detail
}

// httpStatusError covers non-200 responses that carry no Status document.
type httpStatusError struct {
	StatusCode int
}

func (e *httpStatusError) Error() string { return fmt.Sprintf("http status %d", e.StatusCode) }

type xmlStatus struct {
	XMLName      xml.Name `xml:"Status"`
	Operation    string   `xml:"operation"`
	Result       string   `xml:"result"`
	ResultDetail string   `xml:"resultDetail"`
	ResultCode   string   `xml:"resultCode"`
}

// parseStatusError returns an *APIError when body is a Status document
// reporting an error, nil otherwise.
func parseStatusError(body []byte) *APIError {
	var st xmlStatus
	if err := xml.Unmarshal(body, &st); err != nil {
		return nil // not a Status payload
	}
	if st.Result == "" || st.Result == "SUCCESS" {
		return nil
	}
	return &APIError{
		Operation:  st.Operation,
		ResultCode: st.ResultCode,
		Detail:     st.ResultDetail,
	}
}

// isRetryable: timeouts, 408, 429 and 5xx. Vendor business errors are final.
func isRetryable(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var se *httpStatusError
	if errors.As(err, &se) {
		if se.StatusCode == http.StatusTooManyRequests || se.StatusCode == http.StatusRequestTimeout {
			return true
		}
		return se.StatusCode >= 500 && se.StatusCode <= 599
	}
	return false
}
