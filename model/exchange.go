package model

// RequestStatus is the lifecycle state of an exchange request.
type RequestStatus string

const (
	// StatusPending is the initial state of every request.
	StatusPending RequestStatus = "pending"
	// StatusAccepted is terminal. There is no reject/cancel/expire state;
	// a request stays pending forever unless accepted.
	StatusAccepted RequestStatus = "accepted"
)

func (s RequestStatus) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	default:
		return "pending"
	}
}

type ExchangeRequest struct {
	ID            string        `json:"id"`
	FromUser      string        `json:"from_user"`
	ToUser        string        `json:"to_user"`
	RequestedBook string        `json:"requested_book"`
	OfferedBook   string        `json:"offered_book"`
	Status        RequestStatus `json:"status"`
	CreatedTs     int64         `json:"created_ts"`
}

type FindRequest struct {
	ID       *string
	FromUser *string
	ToUser   *string
	Status   *RequestStatus
}

type ExchangeRequestCreate struct {
	RequestedBook string `json:"requested_book"`
	OwnerEmail    string `json:"owner_email"`
	OfferedBook   string `json:"offered_book"`
}

// BookMeta is the per-title detail block attached to request rows.
type BookMeta struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Image  string `json:"image"`
}

// RequestRow is an exchange request enriched for the requests listing.
type RequestRow struct {
	ExchangeRequest
	RequestedBookDetails BookMeta `json:"requested_book_details"`
	OfferedBookDetails   BookMeta `json:"offered_book_details"`
}
