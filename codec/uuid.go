package codec

import (
	"strings"

	"github.com/google/uuid"
)

// UUID adapts strings and byte arrays to uuid.UUID.
type UUID struct{}

func (UUID) Adapt(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	v, ok := indirect(raw)
	if !ok {
		return nil, nil
	}
	switch x := v.(type) {
	case uuid.UUID:
		return x, nil
	case [16]byte:
		return uuid.UUID(x), nil
	case []byte:
		u, err := uuid.FromBytes(x)
		if err != nil {
			return nil, adaptErr(raw, "uuid")
		}
		return u, nil
	case string:
		u, err := uuid.Parse(strings.TrimSpace(x))
		if err != nil {
			return nil, adaptErr(raw, "uuid")
		}
		return u, nil
	default:
		return nil, adaptErr(raw, "uuid")
	}
}

func (UUID) Serialize(v any) string {
	if u, ok := v.(uuid.UUID); ok {
		return u.String()
	}
	return Text(v)
}
