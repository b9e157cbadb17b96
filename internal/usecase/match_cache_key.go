package usecase

import (
	"github.com/google/uuid"
)

const matchCacheKeyPrefix = "matches:opportunity:"

func MatchCacheKey(opportunityID uuid.UUID) string {
	return matchCacheKeyPrefix + opportunityID.String()
}
