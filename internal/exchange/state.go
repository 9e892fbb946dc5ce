package exchange

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/pysugar/task-nexus/internal/unified"
)

// State is the payload carried through the vendor authorize redirect so the
// callback knows which service and app started the flow.
type State struct {
	Service unified.ServiceType `json:"service"`
	AppID   string              `json:"app_id"`
	Nonce   string              `json:"nonce"`
}

// EncodeState serializes the state for the authorize URL. A nonce is minted
// when absent.
func EncodeState(s State) string {
	if s.Nonce == "" {
		s.Nonce = randomHex(8)
	}
	raw, _ := json.Marshal(s)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeState reverses EncodeState.
func DecodeState(raw string) (State, error) {
	var s State
	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return s, fmt.Errorf("decode state: %w", err)
	}
	if err := json.Unmarshal(decoded, &s); err != nil {
		return s, fmt.Errorf("parse state: %w", err)
	}
	return s, nil
}
