package model

import "time"

// Genre classifies a performer. Values are stored as strings in the
// `performers.genre` column.
type Genre string

const (
	GenrePop            Genre = "Pop"
	GenreHipHop         Genre = "HipHop"
	GenreRhythmAndBlues Genre = "RhythmAndBlues"
	GenreAcoustic       Genre = "Acoustic"
	GenreMetal          Genre = "Metal"
	GenreRock           Genre = "Rock"
)

// Performer mirrors a row of the `performers` table.
type Performer struct {
	ID        uint64 `db:"id" json:"id"`                // performers.id
	Name      string `db:"name" json:"name"`            // performers.name
	ImageName string `db:"image_name" json:"imageName"` // performers.image_name
	Genre     Genre  `db:"genre" json:"genre"`          // performers.genre
	Blurb     string `db:"blurb" json:"blurb"`          // performers.blurb
}

// Concert mirrors a row of the `concerts` table together with its
// scheduled performance dates (`concert_dates`) and its performers
// (`concert_performers`). Dates and Performers are loaded separately by
// the repository and are not columns of `concerts`.
type Concert struct {
	ID         uint64      `db:"id" json:"id"`
	Title      string      `db:"title" json:"title"`
	ImageName  string      `db:"image_name" json:"imageName"`
	Blurb      string      `db:"blurb" json:"blurb"`
	Dates      []time.Time `db:"-" json:"dates"`
	Performers []Performer `db:"-" json:"performers"`
}

// ConcertSummary is the lightweight projection used by listing pages.
type ConcertSummary struct {
	ID        uint64 `db:"id" json:"id"`
	Title     string `db:"title" json:"title"`
	ImageName string `db:"image_name" json:"imageName"`
}

// ConcertDate is one (concert, performance date) pairing from the
// `concert_dates` table.
type ConcertDate struct {
	ConcertID uint64    `db:"concert_id"`
	Date      time.Time `db:"date"`
}
