package models

import (
	"errors"
	"strconv"
	"strings"
)

type CreateAccountRequest struct {
	AccountNo *int64 `json:"accountNo,omitempty"`
}

func (r CreateAccountRequest) Validate() error {
	if r.AccountNo != nil && *r.AccountNo <= 0 {
		return errors.New("accountNo must be greater than zero")
	}
	return nil
}

type AccountResponse struct {
	AccountNo int64  `json:"accountNo"`
	CreatedAt string `json:"createdAt"`
}

// ParseAccountNo reads an account number from a path segment.
func ParseAccountNo(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, errors.New("account number must be numeric")
	}
	if id <= 0 {
		return 0, errors.New("account number must be greater than zero")
	}
	return id, nil
}
