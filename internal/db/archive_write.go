package db

import "encoding/json"

// The Add* helpers write archive rows. slackdump owns real archives; these
// exist to build small archives for fixtures and demos.

// AddUser inserts an S_USER row. data is marshaled to JSON when non-nil.
func AddUser(db DBTX, id, username string, data any) error {
	blob, err := marshalBlob(data)
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT INTO S_USER (ID, USERNAME, DATA) VALUES (?, ?, ?)`, id, nullIfEmpty(username), blob)
	return err
}

// AddChannel inserts a CHANNEL row.
func AddChannel(db DBTX, id, name string, data any) error {
	blob, err := marshalBlob(data)
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT INTO CHANNEL (ID, NAME, DATA) VALUES (?, ?, ?)`, id, nullIfEmpty(name), blob)
	return err
}

// AddMember inserts a CHANNEL_USER row.
func AddMember(db DBTX, channelID, userID string) error {
	_, err := db.Exec(`INSERT INTO CHANNEL_USER (CHANNEL_ID, USER_ID) VALUES (?, ?)`, channelID, userID)
	return err
}

// AddMessage inserts a MESSAGE row. parentID may be empty.
func AddMessage(db DBTX, id int64, channelID, ts, parentID string, data any) error {
	blob, err := marshalBlob(data)
	if err != nil {
		return err
	}
	if blob == nil {
		blob = "{}"
	}
	_, err = db.Exec(`
		INSERT INTO MESSAGE (ID, CHANNEL_ID, TS, PARENT_ID, DATA)
		VALUES (?, ?, ?, ?, ?)
	`, id, channelID, ts, nullIfEmpty(parentID), blob)
	return err
}

func marshalBlob(data any) (any, error) {
	if data == nil {
		return nil, nil
	}
	if raw, ok := data.(string); ok {
		return raw, nil
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
