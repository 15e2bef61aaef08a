package db

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/adamavenir/slackdump-render/internal/types"
)

// GetMessageRows returns the messages of the given channels in timestamp
// order. Replies share the stream with top-level messages.
func GetMessageRows(db DBTX, channelIDs []string) ([]types.MessageRow, error) {
	if len(channelIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT ID, TS, CHANNEL_ID, PARENT_ID, DATA
		FROM MESSAGE
		WHERE CHANNEL_ID IN (` + placeholders(len(channelIDs)) + `)
		ORDER BY TS ASC, rowid ASC
	`
	rows, err := db.Query(query, stringArgs(channelIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []types.MessageRow
	for rows.Next() {
		var row types.MessageRow
		var parentID, data sql.NullString
		if err := rows.Scan(&row.ID, &row.TS, &row.ChannelID, &parentID, &data); err != nil {
			return nil, err
		}
		row.ParentID = nullStringPtr(parentID)
		row.Data = nullStringPtr(data)
		messages = append(messages, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

// ParseTimestamp converts a stored message timestamp (seconds since the
// epoch with a fractional part) into a time.
func ParseTimestamp(value any) (time.Time, error) {
	var seconds float64
	switch v := value.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("missing timestamp")
	case int64:
		seconds = float64(v)
	case float64:
		seconds = v
	case []byte:
		return ParseTimestamp(string(v))
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q", v)
		}
		seconds = parsed
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", value)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return time.Time{}, fmt.Errorf("invalid timestamp %v", seconds)
	}
	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(math.Round(frac*1e6))*1e3), nil
}
