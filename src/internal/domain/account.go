package domain

import "time"

type Account struct {
	ID        int64
	CreatedAt time.Time
}
