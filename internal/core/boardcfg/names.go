package boardcfg

import (
	"fmt"

	"github.com/yndnr/gmm7550-go/internal/core/domain"
)

// NameOrValue translates k through the rename table m. A nil or empty
// table means names are used literally and k is returned unchanged.
// A non-empty table must contain k; NameOrValue panics with
// domain.ErrKeyNotFound otherwise.
func NameOrValue[K comparable](m map[K]K, k K) K {
	v, err := lookupName(m, k)
	if err != nil {
		panic(err)
	}
	return v
}

func lookupName[K comparable](m map[K]K, k K) (K, error) {
	if len(m) == 0 {
		return k, nil
	}
	v, ok := m[k]
	if !ok {
		return k, domain.ErrKeyNotFound.WithDetails(fmt.Sprint(k))
	}
	return v, nil
}
