package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
)

// DefaultSignatureTolerance bounds how old a signed callback may be.
const DefaultSignatureTolerance = 5 * time.Minute

// VerifyEvent checks the callback signature header against the raw payload
// and, if valid, decodes the event. The header format is
// "t=<unix>,v1=<hex hmac-sha256>" where the signed string is "<t>.<payload>".
func VerifyEvent(payload []byte, sigHeader, secret string, now time.Time) (*Event, error) {
	ts, sig, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, errors.NewAuthenticationError(err.Error())
	}

	age := now.Sub(time.Unix(ts, 0))
	if age > DefaultSignatureTolerance || age < -DefaultSignatureTolerance {
		return nil, errors.NewAuthenticationError("signature timestamp outside tolerance")
	}

	expected := computeSignature(payload, ts, secret)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return nil, errors.NewAuthenticationError("signature mismatch")
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, errors.NewAuthenticationError(fmt.Sprintf("malformed event payload: %v", err))
	}
	return &event, nil
}

// SignPayload produces a valid signature header. Used by tests and the
// local gateway simulator.
func SignPayload(payload []byte, secret string, now time.Time) string {
	ts := now.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, computeSignature(payload, ts, secret))
}

func computeSignature(payload []byte, ts int64, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func parseSignatureHeader(header string) (int64, string, error) {
	if header == "" {
		return 0, "", fmt.Errorf("missing signature header")
	}

	var ts int64
	var sig string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			parsed, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, "", fmt.Errorf("invalid signature timestamp")
			}
			ts = parsed
		case "v1":
			sig = kv[1]
		}
	}

	if ts == 0 || sig == "" {
		return 0, "", fmt.Errorf("incomplete signature header")
	}
	return ts, sig, nil
}
