package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/stempro/academy-api/pkg/errors"
)

func TestCourseCatalog(t *testing.T) {
	svc := NewCourseService()

	catalog := svc.Catalog()
	assert.Len(t, catalog.Courses, 3)
	assert.Len(t, catalog.Programs, 3)
}

func TestCourseLookup(t *testing.T) {
	svc := NewCourseService()

	course, err := svc.Course("junior-ai")
	require.NoError(t, err)
	assert.Equal(t, "Junior AI Program", course.Name)

	_, err = svc.Course("underwater-basket-weaving")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestProgramLookup(t *testing.T) {
	svc := NewCourseService()

	program, err := svc.Program("college-ninja")
	require.NoError(t, err)
	assert.Equal(t, 8, program.MaxStudents)

	_, err = svc.Program("junior-ai")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}
