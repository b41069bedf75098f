package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type Lead struct {
	ID             int    `json:"id"`
	CreatedOn      string `json:"created_on"`
	LastUpdated    string `json:"last_updated"`
	Owner          string `json:"owner"`
	Account        string `json:"account"`
	Name           string `json:"name"`
	Title          string `json:"title"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Location       string `json:"location"`
	Source         string `json:"source"`
	Priority       string `json:"priority"`
	Status         string `json:"status"` // New, Qualified, Proposal, Won, Lost, ...
	Stage          string `json:"stage"`  // Discovery, ...
	EstimatedValue string `json:"estimated_value"`
	CloseDate      string `json:"close_date"`
	Notes          string `json:"notes"`
}

type Activity struct {
	Timestamp string `json:"timestamp"`
	LeadID    string `json:"lead_id"`
	Owner     string `json:"owner"`
	Type      string `json:"type"`
	Notes     string `json:"notes"`
	NextStep  string `json:"next_step"`
	DueDate   string `json:"due_date"`
}

// LeadNumber reports the numeric lead id when the cell holds one.
func (a Activity) LeadNumber() (int, bool) {
	n, err := strconv.Atoi(a.LeadID)
	if err != nil {
		return 0, false
	}
	return n, true
}

type Account struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Owner    string `json:"owner"`
	Location string `json:"location"`
	Website  string `json:"website"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
}

// Item is one entry of an aggregated view.
type Item struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Cell is a form field that clients may send as a JSON string or number.
// Numbers keep their shortest decimal form, so 1200 reads as "1200".
type Cell string

func (c *Cell) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*c = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Cell(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected a string or number, got %s", b)
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("number %s is out of range", n)
	}
	*c = Cell(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

type LeadInput struct {
	Owner     string `json:"owner"`
	Account   string `json:"account"`
	Name      string `json:"name"`
	Title     string `json:"title"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"citystate"`
	Source    string `json:"source"`
	Priority  string `json:"priority"`
	Status    string `json:"status"`
	Stage     string `json:"stage"`
	Value     Cell   `json:"value"`
	CloseDate string `json:"closedate"`
	Notes     string `json:"notes"`
}

type ActivityInput struct {
	LeadID   Cell   `json:"lead_id"`
	Owner    string `json:"owner"`
	Type     string `json:"type"`
	Notes    string `json:"notes"`
	NextStep string `json:"next_step"`
	DueDate  string `json:"due_date"`
}

type AccountInput struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Owner    string `json:"owner"`
	Location string `json:"citystate"`
	Website  string `json:"website"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
}
