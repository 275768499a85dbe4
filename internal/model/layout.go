package model

import (
	"strconv"
	"time"
)

// theatreRows lists the seat rows front to back with the price of every
// seat in that row. Each row has seatsPerRow seats numbered from 1.
var theatreRows = []struct {
	row        string
	priceCents uint32
}{
	{"A", 25000}, {"B", 25000}, {"C", 25000},
	{"D", 17500}, {"E", 17500}, {"F", 17500},
	{"G", 12000}, {"H", 12000},
}

const seatsPerRow = 15

// TheatreLayout returns the unbooked seats of one performance date.
// The layout always holds TheatreCapacity seats.
func TheatreLayout(date time.Time) []Seat {
	date = NormalizeDate(date)
	seats := make([]Seat, 0, TheatreCapacity)
	for _, r := range theatreRows {
		for n := 1; n <= seatsPerRow; n++ {
			seats = append(seats, Seat{
				Label:      r.row + strconv.Itoa(n),
				Date:       date,
				PriceCents: r.priceCents,
			})
		}
	}
	return seats
}
