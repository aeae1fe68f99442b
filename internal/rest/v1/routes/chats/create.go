package chats

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/middleware"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
)

type createGroupRoute struct {
	Ctx global.Context
}

func newCreateGroup(gCtx global.Context) rest.Route {
	return &createGroupRoute{gCtx}
}

func (r *createGroupRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/group",
		Method: rest.POST,
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

type createGroupBody struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// Create a group chat. The creator becomes its admin and is always a
// member; a group needs at least two other members.
func (r *createGroupRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	body := createGroupBody{}
	if err := ctx.BindJSON(&body); err != nil {
		return err
	}

	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return errors.ErrEmptyField().SetFields(errors.Fields{"field": "name"})
	}

	members := []primitive.ObjectID{actor.ID}

	seen := map[primitive.ObjectID]bool{actor.ID: true}

	for _, raw := range body.Members {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return errors.ErrBadObjectID().SetFields(errors.Fields{"member": raw})
		}

		if !seen[id] {
			seen[id] = true

			members = append(members, id)
		}
	}

	if len(members) < 3 {
		return errors.ErrValidationRejected().SetDetail("a group chat needs at least 2 other members")
	}

	// Reject members that do not resolve to real users
	users, qErr := r.Ctx.Inst().Query.ManyUsers(ctx, members)
	if qErr != nil {
		return qErr
	}

	if len(users) != len(members) {
		return errors.ErrUnknownUser().SetDetail("one or more members do not exist")
	}

	chat := model.Chat{
		IsGroupChat: true,
		GroupName:   body.Name,
		CreatedBy:   actor.ID,
		Admin:       actor.ID,
		Members:     members,
	}

	if err := r.Ctx.Inst().Mutate.CreateChat(ctx, &chat); err != nil {
		return err
	}

	return ctx.JSON(rest.Created, r.Ctx.Inst().Modelizer.Chat(chat, users, nil))
}
