package model

import (
	"time"

	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/enums"
)

type Swipe struct {
	ID        int64                `json:"id"`
	SwiperID  int64                `json:"swiper_id"`
	SwipedID  int64                `json:"swiped_id"`
	Direction enums.SwipeDirection `json:"direction"`
	CreatedAt time.Time            `json:"created_at"`
}
