package container

import (
	app "donut-inspector/internal/application"
	"donut-inspector/internal/domain/port"
)

type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
}

func New(userRepo port.UserRepository, extractor port.GeometryExtractor, defectThreshold int) *Container {
	userService := app.NewUserService(userRepo)
	inspectionService := app.NewInspectionService(userService, extractor, defectThreshold)

	return &Container{
		UserService:       userService,
		InspectionService: inspectionService,
	}
}
