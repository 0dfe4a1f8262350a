// filepath: internal/services/book_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hkids/internal/models"
)

func TestApplyInput_CoalescesAgainstStoredRow(t *testing.T) {
	base := &models.Book{Title: "Stored", Author: "A. Author", AgeGroupMin: 3, AgeGroupMax: 7}

	got := applyInput(base, BookInput{AgeGroupMin: intRef(10)})

	assert.Equal(t, 10, got.AgeGroupMin)
	assert.Equal(t, 7, got.AgeGroupMax)
	assert.Equal(t, "Stored", got.Title)
	// base is untouched; applyInput works on a copy.
	assert.Equal(t, 3, base.AgeGroupMin)
}

func TestValidateAgeRange(t *testing.T) {
	assert.NoError(t, validateAgeRange(0, 12))
	assert.NoError(t, validateAgeRange(5, 5))
	assert.ErrorIs(t, validateAgeRange(10, 7), ErrValidation)
}

func TestValidateAgeRange_CoalescedOneBoundUpdate(t *testing.T) {
	stored := &models.Book{AgeGroupMin: 3, AgeGroupMax: 7}

	// Only the min arrives in the request; the stored max must still bound it.
	updated := applyInput(stored, BookInput{AgeGroupMin: intRef(10)})
	assert.ErrorIs(t, validateAgeRange(updated.AgeGroupMin, updated.AgeGroupMax), ErrValidation)

	updated = applyInput(stored, BookInput{AgeGroupMin: intRef(5)})
	assert.NoError(t, validateAgeRange(updated.AgeGroupMin, updated.AgeGroupMax))
}
