package cartstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"luxe-atelier/internal/domain"
)

// SnapshotVersion is written into every persisted document. Version 0 is the
// unversioned envelope the storefront wrote before versioning; its state
// schema is identical.
const SnapshotVersion = 1

// ErrUnsupportedVersion is returned for documents written by a newer schema.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

type snapshotDocument struct {
	Version int              `json:"version"`
	State   domain.CartState `json:"state"`
}

// EncodeSnapshot serialises the full cart state.
func EncodeSnapshot(state domain.CartState) ([]byte, error) {
	if state.Items == nil {
		state.Items = []domain.LineItem{}
	}
	raw, err := json.Marshal(snapshotDocument{Version: SnapshotVersion, State: state})
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return raw, nil
}

// DecodeSnapshot parses a persisted document and repairs any line that
// violates the quantity bounds.
func DecodeSnapshot(raw []byte) (domain.CartState, error) {
	var doc snapshotDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.CartState{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if doc.Version < 0 || doc.Version > SnapshotVersion {
		return domain.CartState{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	return normalize(doc.State), nil
}

// normalize drops lines that could never have been stored (non-positive
// quantity, duplicate id or variant) and clamps quantities to their cap.
func normalize(state domain.CartState) domain.CartState {
	out := domain.CartState{IsOpen: state.IsOpen, Items: make([]domain.LineItem, 0, len(state.Items))}
	for _, line := range state.Items {
		line.Quantity = clampQuantity(line.Quantity, line.MaxQuantity)
		if line.Quantity < 1 {
			continue
		}
		if out.IndexOf(line.ID) >= 0 || out.IndexOfVariant(line.ProductID, line.VariantID) >= 0 {
			continue
		}
		out.Items = append(out.Items, line)
	}
	return out
}
