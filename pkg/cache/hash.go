package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey returns kind:sha256(json(parts)). Scene keys hash the params,
// artifact keys hash the scene hash plus the render options a format reads.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. The pipeline uses it as the
// content hash of a serialized scene document, which doubles as the
// server's ETag.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
