package handler

import (
	"github.com/gofiber/fiber/v2"

	"archiv/internal/model"
)

// CourseCatalog is the read side of catalog.Catalog.
type CourseCatalog interface {
	All() []model.Course
	Get(id string) (model.Course, bool)
}

// ListCourses godoc
// @Summary List courses
// @Tags courses
// @Produce json
// @Success 200 {array} model.Course
// @Router /api/courses [get]
func ListCourses(cat CourseCatalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(cat.All())
	}
}

// GetCourse godoc
// @Summary Get a course by its slug
// @Tags courses
// @Produce json
// @Param id path string true "Course slug"
// @Success 200 {object} model.Course
// @Failure 404 {object} errorPayload
// @Router /api/courses/{id} [get]
func GetCourse(cat CourseCatalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		course, ok := cat.Get(c.Params("id"))
		if !ok {
			return writeError(c, fiber.StatusNotFound, "Course not found", "")
		}
		return c.JSON(course)
	}
}
