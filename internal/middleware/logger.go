package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questbelief/backend/pkg/errorx"
	"github.com/questbelief/backend/pkg/router"
	"github.com/questbelief/backend/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return
		}

		elapsed := time.Since(xcontext.StartTime(ctx))
		info := fmt.Sprintf("%s | %s | %s", req.Method, req.URL.Path, elapsed)
		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				xcontext.Logger(ctx).Warnf("%s | %d", info, errx.Code)
			} else {
				xcontext.Logger(ctx).Errorf("%s | %d", info, -1)
			}
		} else {
			xcontext.Logger(ctx).Infof(info)
		}
	}
}
