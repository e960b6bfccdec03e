package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"time"
)

// TaskListKey identifies one task listing response. It changes whenever the
// project's tasks change, so stale entries are never read again and simply
// expire.
func TaskListKey(projectID, userID uint64, tasksUpdatedAt *time.Time, params url.Values) string {
	updated := "0"
	if tasksUpdatedAt != nil {
		updated = strconv.FormatInt(tasksUpdatedAt.UnixMicro(), 10)
	}
	return fmt.Sprintf("tasks_project_%d_user_%d_updated_%s_%s", projectID, userID, updated, QueryDigest(params))
}

// QueryDigest hashes params independently of key and value order.
func QueryDigest(params url.Values) string {
	canonical := make(url.Values, len(params))
	for key, values := range params {
		sorted := slices.Clone(values)
		slices.Sort(sorted)
		canonical[key] = sorted
	}

	sum := md5.Sum([]byte(canonical.Encode()))
	return hex.EncodeToString(sum[:])
}
