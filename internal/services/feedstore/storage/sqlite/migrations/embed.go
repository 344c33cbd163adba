package migrations

import "embed"

// FeedStoreSchema names the embedded schema root for the feed cache.
const FeedStoreSchema = "feedstore"

// FS contains embedded SQLite schemas keyed by root directory.
//
//go:embed feedstore/*.sql
var FS embed.FS
