// Package rating реализует модель оценок по взвешенным критериям.
//
// Для фильмов и сериалов набор осей отличается ровно одной «средней» осью:
// у фильма это climax (кульминация), у сериала — length (длина сезона).
// Итоговая оценка — невзвешенное среднее ровно шести осей, округлённое
// до одного знака после запятой.
package rating

import (
	"math"
	"time"
)

// MediaKind — вид произведения.
type MediaKind string

const (
	KindMovie  MediaKind = "movie"
	KindSeries MediaKind = "series"
)

// Criteria — шесть осей оценки. Поле Climax заполняется для фильмов,
// Length — для сериалов; одновременно используется ровно одно из них.
type Criteria struct {
	Acting  float64 `json:"acting"`
	Climax  float64 `json:"climax,omitempty"`
	Length  float64 `json:"length,omitempty"`
	Visuals float64 `json:"visuals"`
	Story   float64 `json:"story"`
	Pacing  float64 `json:"pacing"`
	Ending  float64 `json:"ending"`
}

// axes возвращает шесть значимых осей в фиксированном порядке.
func (c Criteria) axes(kind MediaKind) [6]float64 {
	middle := c.Climax
	if kind == KindSeries {
		middle = c.Length
	}

	return [6]float64{c.Acting, middle, c.Visuals, c.Story, c.Pacing, c.Ending}
}

// Overall считает итоговую оценку: среднее шести осей, один знак.
func (c Criteria) Overall(kind MediaKind) float64 {
	var sum float64
	for _, v := range c.axes(kind) {
		sum += v
	}

	return Round1(sum / 6)
}

// Round1 округляет до одного десятичного знака.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Draft — черновик оценки: незавершённая или ранее отправленная оценка,
// редактируемая пользователем. Ключуется внешним идентификатором фильма
// и живёт в локальном кэше между экранами «оценить» и «исправить».
type Draft struct {
	MediaID     string    `json:"mediaId"`
	Kind        MediaKind `json:"kind"`
	Title       string    `json:"title"`
	ReleaseDate string    `json:"releaseDate"`
	Overall     float64   `json:"overall"`
	Criteria    Criteria  `json:"criteria"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Normalize пересчитывает итоговую оценку из критериев.
// Вызывается перед сохранением черновика, чтобы overall не разъезжался
// с осями после частичных правок.
func (d *Draft) Normalize() {
	d.Overall = d.Criteria.Overall(d.Kind)
}

// Patch — частичное обновление черновика. nil-поля не трогают значение.
type Patch struct {
	Title       *string    `json:"title,omitempty"`
	ReleaseDate *string    `json:"releaseDate,omitempty"`
	Criteria    *Criteria  `json:"criteria,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Apply накладывает патч на копию черновика и возвращает её.
func (p Patch) Apply(d Draft) Draft {
	if p.Title != nil {
		d.Title = *p.Title
	}

	if p.ReleaseDate != nil {
		d.ReleaseDate = *p.ReleaseDate
	}

	if p.Criteria != nil {
		d.Criteria = *p.Criteria
	}

	if p.UpdatedAt != nil {
		d.UpdatedAt = *p.UpdatedAt
	}

	d.Normalize()

	return d
}
