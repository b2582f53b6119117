package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// MaxBodySize bounds how much of a provider response is read.
const MaxBodySize = 10 << 20

// ReadBody reads and closes resp.Body, undoing any Content-Encoding the transport left in place.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	decoded, _, err := DecodeChain(resp.Header, body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return decoded, nil
}

// DecodeChain decodes a body according to the Content-Encoding header.
// Chained encodings such as "gzip, br" are undone in reverse order. Deflate bodies may be
// zlib-wrapped or raw. Returns the decoded body and whether it changed.
func DecodeChain(header http.Header, body []byte) ([]byte, bool, error) {
	ce := header.Get("Content-Encoding")
	if ce == "" {
		return body, false, nil
	}
	compressions := strings.Split(ce, ",")
	changed := false
	for i := len(compressions) - 1; i >= 0; i-- {
		switch strings.TrimSpace(strings.ToLower(compressions[i])) {
		case "br":
			r := brotli.NewReader(bytes.NewReader(body))
			var err error
			body, err = io.ReadAll(r)
			if err != nil {
				return nil, false, err
			}
			changed = true
		case "gzip":
			gr, err := gzip.NewReader(bytes.NewReader(body))
			if err != nil {
				return nil, false, err
			}
			out, err := io.ReadAll(gr)
			cerr := gr.Close()
			if err != nil {
				return nil, false, err
			}
			if cerr != nil {
				return nil, false, cerr
			}
			body = out
			changed = true
		case "zstd":
			dec, err := zstd.NewReader(bytes.NewReader(body))
			if err != nil {
				return nil, false, err
			}
			out, err := io.ReadAll(dec)
			dec.Close()
			if err != nil {
				return nil, false, err
			}
			body = out
			changed = true
		case "deflate":
			zr, err := zlib.NewReader(bytes.NewReader(body))
			if err == nil {
				out, err2 := io.ReadAll(zr)
				cerr := zr.Close()
				if err2 != nil {
					return nil, false, err2
				}
				if cerr != nil {
					return nil, false, cerr
				}
				body = out
				changed = true
				break
			}
			fr := flate.NewReader(bytes.NewReader(body))
			out, err2 := io.ReadAll(fr)
			cerr := fr.Close()
			if err2 != nil {
				return nil, false, err2
			}
			if cerr != nil {
				return nil, false, cerr
			}
			body = out
			changed = true
		case "compress", "identity", "":
		default:
			return nil, false, fmt.Errorf("unsupported content-encoding: %q", compressions[i])
		}
	}
	return body, changed, nil
}
