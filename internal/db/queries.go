package db

import (
	"database/sql"
	"strings"

	"github.com/adamavenir/slackdump-render/internal/types"
)

// GetUserRows returns every user row, oldest load first, so later loads of
// the same id can replace earlier ones.
func GetUserRows(db DBTX) ([]types.UserRow, error) {
	rows, err := db.Query(`
		SELECT ID, USERNAME, DATA
		FROM S_USER
		ORDER BY LOAD_DTTM ASC, rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []types.UserRow
	for rows.Next() {
		var row types.UserRow
		var username, data sql.NullString
		if err := rows.Scan(&row.ID, &username, &data); err != nil {
			return nil, err
		}
		row.Username = nullStringPtr(username)
		row.Data = nullStringPtr(data)
		users = append(users, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// GetChannelRows returns every channel row, oldest load first.
func GetChannelRows(db DBTX) ([]types.ChannelRow, error) {
	rows, err := db.Query(`
		SELECT ID, NAME, DATA
		FROM CHANNEL
		ORDER BY LOAD_DTTM ASC, rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []types.ChannelRow
	for rows.Next() {
		var row types.ChannelRow
		var name, data sql.NullString
		if err := rows.Scan(&row.ID, &name, &data); err != nil {
			return nil, err
		}
		row.Name = nullStringPtr(name)
		row.Data = nullStringPtr(data)
		channels = append(channels, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return channels, nil
}

// GetMembershipRows returns channel/user pairs for the given channels.
func GetMembershipRows(db DBTX, channelIDs []string) ([]types.MembershipRow, error) {
	if len(channelIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT CHANNEL_ID, USER_ID
		FROM CHANNEL_USER
		WHERE CHANNEL_ID IN (` + placeholders(len(channelIDs)) + `)
		ORDER BY rowid ASC
	`
	rows, err := db.Query(query, stringArgs(channelIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []types.MembershipRow
	for rows.Next() {
		var row types.MembershipRow
		if err := rows.Scan(&row.ChannelID, &row.UserID); err != nil {
			return nil, err
		}
		members = append(members, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, value := range values {
		args[i] = value
	}
	return args
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}
