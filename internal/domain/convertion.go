package domain

import (
	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/internal/model"
)

func convertProfile(identity *entity.Identity, h *history) *model.GetProfileResponse {
	resp := &model.GetProfileResponse{
		Identity: model.ConvertIdentity(identity),
		History:  h.Entries,
		Summary:  h.Summary,
	}

	if h.Companion != nil {
		companion := model.ConvertIdentity(h.Companion)
		resp.Companion = &companion
	}

	if h.Principal != nil {
		principal := model.ConvertIdentity(h.Principal)
		resp.Principal = &principal
	}

	return resp
}

func convertOptionalIdentity(identity *entity.Identity) *model.Identity {
	if identity == nil {
		return nil
	}

	result := model.ConvertIdentity(identity)
	return &result
}

func convertOptionalShortIdentity(identity *entity.Identity) *model.ShortIdentity {
	if identity == nil {
		return nil
	}

	result := model.ConvertShortIdentity(identity)
	return &result
}
