package postgres

import (
	"strings"

	"gorm.io/gorm"
)

const defaultPageSize = 50

type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyPaginationAndSort orders by sortBy when it is one of allowed and pages
// the query. A non-positive limit falls back to the default page size.
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int, allowed ...string) *gorm.DB {
	column := "created_at"
	for _, a := range allowed {
		if sortBy == a {
			column = a
			break
		}
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}
	query = query.Order(column + " " + direction).Order("id " + direction)

	if limit <= 0 {
		limit = defaultPageSize
	}
	query = query.Limit(limit)
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

func orderBySequence(db *gorm.DB) *gorm.DB {
	return db.Order("sequence ASC, id ASC")
}

// preloadQuestionChildren loads everything the scoring engine reads from a
// question. prefix is the association path leading to the question, e.g.
// "Questions." when loading through a quiz.
func preloadQuestionChildren(db *gorm.DB, prefix string) *gorm.DB {
	return db.
		Preload(prefix+"Choices", orderBySequence).
		Preload(prefix+"MatchPairs", orderBySequence).
		Preload(prefix+"DragTokens", orderBySequence).
		Preload(prefix+"FillBlankAnswers", func(db *gorm.DB) *gorm.DB {
			return db.Order("blank_number ASC")
		}).
		Preload(prefix+"Blanks", func(db *gorm.DB) *gorm.DB {
			return db.Order("blank_number ASC")
		}).
		Preload(prefix+"Blanks.Options", orderBySequence).
		Preload(prefix+"SequenceItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("correct_position ASC")
		}).
		Preload(prefix+"MatrixRows", orderBySequence).
		Preload(prefix+"MatrixColumns", orderBySequence).
		Preload(prefix + "MatrixCells").
		Preload(prefix+"Passages", orderBySequence).
		Preload(prefix+"Passages.SubQuestions", orderBySequence).
		Preload(prefix+"Passages.SubQuestions.Choices", orderBySequence)
}
