package styling

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// OutfitKey identifies an item combination regardless of order.
func OutfitKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	sum := md5.Sum([]byte(strings.Join(sorted, "_")))
	return hex.EncodeToString(sum[:])
}
