package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/readbridge-backend/internal/data/repos/content"
	"github.com/yungbote/readbridge-backend/internal/data/repos/reading"
	"github.com/yungbote/readbridge-backend/internal/data/repos/user"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = user.UserTokenRepo

type ContentItemRepo = content.ContentItemRepo
type ContentAnalysisRepo = content.ContentAnalysisRepo
type ContentAdaptationRepo = content.ContentAdaptationRepo
type ContentListFilter = content.ListFilter

type ReadingProfileRepo = reading.ReadingProfileRepo
type ReadingLevelRepo = reading.ReadingLevelRepo
type ReadingBehaviorRepo = reading.ReadingBehaviorRepo

// Repos bundles every repository for app wiring.
type Repos struct {
	User      UserRepo
	UserToken UserTokenRepo

	ContentItem       ContentItemRepo
	ContentAnalysis   ContentAnalysisRepo
	ContentAdaptation ContentAdaptationRepo

	ReadingProfile  ReadingProfileRepo
	ReadingLevel    ReadingLevelRepo
	ReadingBehavior ReadingBehaviorRepo
}

func New(db *gorm.DB, log *logger.Logger) *Repos {
	return &Repos{
		User:      user.NewUserRepo(db, log),
		UserToken: user.NewUserTokenRepo(db, log),

		ContentItem:       content.NewContentItemRepo(db, log),
		ContentAnalysis:   content.NewContentAnalysisRepo(db, log),
		ContentAdaptation: content.NewContentAdaptationRepo(db, log),

		ReadingProfile:  reading.NewReadingProfileRepo(db, log),
		ReadingLevel:    reading.NewReadingLevelRepo(db, log),
		ReadingBehavior: reading.NewReadingBehaviorRepo(db, log),
	}
}
