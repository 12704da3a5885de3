package model

import "time"

// Exchange is one settled question/answer round trip.
type Exchange struct {
	ID         string    `db:"id"`
	Question   string    `db:"question"`
	Answer     string    `db:"answer"`
	Outcome    string    `db:"outcome"`
	AskedAt    time.Time `db:"asked_at"`
	AnsweredAt time.Time `db:"answered_at"`
}
