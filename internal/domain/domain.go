package domain

import (
	"github.com/yungbote/readbridge-backend/internal/domain/content"
	"github.com/yungbote/readbridge-backend/internal/domain/reading"
	"github.com/yungbote/readbridge-backend/internal/domain/user"
)

type User = user.User
type UserToken = user.UserToken

type ContentItem = content.ContentItem
type ContentAnalysis = content.ContentAnalysis
type ContentAdaptation = content.ContentAdaptation

type ReadingProfile = reading.ReadingProfile
type ReadingLevel = reading.ReadingLevel
type ReadingBehavior = reading.ReadingBehavior
