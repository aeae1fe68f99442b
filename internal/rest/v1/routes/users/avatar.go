package users

import (
	"bytes"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/middleware"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
)

const maxAvatarBytes = 2 * 1024 * 1024

var allowedAvatarTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

type avatarRoute struct {
	Ctx global.Context
}

func newAvatar(gCtx global.Context) rest.Route {
	return &avatarRoute{gCtx}
}

func (r *avatarRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/@me/avatar",
		Method: rest.PUT,
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

func (r *avatarRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	if r.Ctx.Inst().S3 == nil {
		return errors.ErrMissingInternalDeps().SetDetail("object storage is not configured")
	}

	contentType := string(ctx.Request.Header.ContentType())

	ext, typeOk := allowedAvatarTypes[contentType]
	if !typeOk {
		return errors.ErrValidationRejected().SetDetail("unsupported image type: %s", contentType)
	}

	body := ctx.Request.Body()
	if len(body) == 0 {
		return errors.ErrEmptyField().SetFields(errors.Fields{"field": "body"})
	}

	if len(body) > maxAvatarBytes {
		return errors.ErrValidationRejected().SetDetail("image exceeds the %d byte limit", maxAvatarBytes)
	}

	key := r.Ctx.Inst().S3.ComposeKey("avatars", fmt.Sprintf("%s_%d.%s", actor.ID.Hex(), time.Now().Unix(), ext))

	if err := r.Ctx.Inst().S3.UploadFile(ctx, &s3manager.UploadInput{
		Bucket:       aws.String(r.Ctx.Config().S3.PublicBucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		ACL:          aws.String("public-read"),
		CacheControl: aws.String("public, max-age=604800"),
	}); err != nil {
		return errors.ErrInternalServerError().SetDetail(err.Error())
	}

	avatar := model.UserAvatar{Key: key}
	if err := r.Ctx.Inst().Mutate.SetUserAvatar(ctx, actor.ID, avatar); err != nil {
		return err
	}

	user := *actor
	user.Avatar = avatar

	return ctx.JSON(rest.OK, r.Ctx.Inst().Modelizer.User(user))
}
