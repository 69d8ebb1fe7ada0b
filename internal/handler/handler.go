package handler

import (
	"floresya-image-server/internal/service"
	"floresya-image-server/internal/usecase/app"
)

type Handler struct {
	uc      *app.AppUseCase
	service *service.AppService
}

func NewHandler(uc *app.AppUseCase, appService *service.AppService) *Handler {
	return &Handler{uc: uc, service: appService}
}
