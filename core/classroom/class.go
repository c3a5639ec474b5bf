package classroom

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core"
	"github.com/SELab-2/Dwengo-1/core/user"
)

var errAlreadyMember = core.NewValidationError(nil, core.FieldError{Field: "joinCode", Error: "you are already a member of this class"})

// ClassService holds the teacher side of classes.
type ClassService struct {
	store          Store
	joinCodeLength int
}

func NewClassService(store Store, joinCodeLength int) *ClassService {
	return &ClassService{store: store, joinCodeLength: joinCodeLength}
}

// withJoinCode calls fn with fresh join codes until one is not taken.
func (svc *ClassService) withJoinCode(fn func(code string) (Class, error)) (Class, error) {
	for attempt := 1; ; attempt++ {
		code, err := GenerateJoinCode(svc.joinCodeLength)
		if err != nil {
			return Class{}, errors.Wrap(err, "generating join code")
		}
		class, err := fn(code)
		if errors.Cause(err) == ErrJoinCodeTaken && attempt < maxJoinCodeAttempts {
			continue
		}
		return class, err
	}
}

func (svc *ClassService) CreateClass(ctx context.Context, teacherID int, nc NewClass) (Class, error) {
	now := core.Now()
	class, err := svc.withJoinCode(func(code string) (Class, error) {
		return svc.store.Classes.CreateClass(ctx, Class{
			Name:      nc.Name,
			JoinCode:  code,
			TeacherID: teacherID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	return class, errors.Wrap(err, "creating class")
}

func (svc *ClassService) GetTeacherClasses(ctx context.Context, teacherID int) ([]Class, error) {
	classes, err := svc.store.Classes.QueryTeacherClasses(ctx, teacherID)
	return classes, errors.Wrap(err, "querying teacher classes")
}

// GetTeacherClass returns the class if the teacher owns it.
func (svc *ClassService) GetTeacherClass(ctx context.Context, teacherID, classID int) (Class, error) {
	class, err := svc.store.Classes.GetClassByID(ctx, classID)
	if err != nil {
		return Class{}, errors.Wrap(err, "finding class")
	}
	if class.TeacherID != teacherID {
		return Class{}, ErrNotClassTeacher
	}
	return class, nil
}

// RegenerateJoinCode replaces the join code; the previous code stops working.
func (svc *ClassService) RegenerateJoinCode(ctx context.Context, teacherID, classID int) (Class, error) {
	if _, err := svc.GetTeacherClass(ctx, teacherID, classID); err != nil {
		return Class{}, err
	}
	return svc.ResetJoinCode(ctx, classID)
}

// ResetJoinCode replaces the join code without an ownership check.
func (svc *ClassService) ResetJoinCode(ctx context.Context, classID int) (Class, error) {
	class, err := svc.withJoinCode(func(code string) (Class, error) {
		return svc.store.Classes.UpdateJoinCode(ctx, classID, code)
	})
	return class, errors.Wrap(err, "updating join code")
}

func (svc *ClassService) GetClassStudents(ctx context.Context, teacherID, classID int) ([]user.Profile, error) {
	if _, err := svc.GetTeacherClass(ctx, teacherID, classID); err != nil {
		return nil, err
	}
	students, err := svc.store.Classes.QueryClassStudents(ctx, classID)
	return students, errors.Wrap(err, "querying class students")
}

func (svc *ClassService) RemoveStudent(ctx context.Context, teacherID, classID, studentID int) error {
	if _, err := svc.GetTeacherClass(ctx, teacherID, classID); err != nil {
		return err
	}
	return errors.Wrap(svc.store.Classes.RemoveStudent(ctx, classID, studentID), "removing student")
}

// StudentService holds the student side of classes.
type StudentService struct {
	store   Store
	mailSvc core.EmailService
}

func NewStudentService(store Store, mailSvc core.EmailService) *StudentService {
	return &StudentService{store: store, mailSvc: mailSvc}
}

func (svc *StudentService) GetStudentClasses(ctx context.Context, studentID int) ([]Class, error) {
	classes, err := svc.store.Classes.QueryStudentClasses(ctx, studentID)
	return classes, errors.Wrap(err, "querying student classes")
}

// GetStudentClass returns the class if the student is a member.
func (svc *StudentService) GetStudentClass(ctx context.Context, studentID, classID int) (Class, error) {
	if err := isStudentInClass(ctx, svc.store, studentID, classID); err != nil {
		return Class{}, err
	}
	class, err := svc.store.Classes.GetClassByID(ctx, classID)
	return class, errors.Wrap(err, "finding class")
}

// JoinClass adds the student to the class behind joinCode and lets its teacher know.
func (svc *StudentService) JoinClass(ctx context.Context, studentID int, joinCode string) (Class, error) {
	class, err := svc.store.Classes.GetClassByJoinCode(ctx, joinCode)
	if err != nil {
		return Class{}, errors.Wrap(err, "finding class by join code")
	}

	member, err := svc.store.Classes.IsStudentInClass(ctx, class.ID, studentID)
	if err != nil {
		return Class{}, errors.Wrap(err, "checking class membership")
	}
	if member {
		return Class{}, errAlreadyMember
	}
	if err = svc.store.Classes.AddStudent(ctx, class.ID, studentID); err != nil {
		return Class{}, errors.Wrap(err, "adding student")
	}

	svc.notifyTeacher(ctx, class, studentID)
	return class, nil
}

func (svc *StudentService) notifyTeacher(ctx context.Context, class Class, studentID int) {
	teacher, err := svc.store.Users.GetUserByID(ctx, class.TeacherID, user.RoleTeacher)
	if err != nil {
		return
	}
	student, err := svc.store.Users.GetUserByID(ctx, studentID, user.RoleStudent)
	if err != nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: teacher.FirstName + " " + teacher.LastName, Address: teacher.Email}},
		Subject: fmt.Sprintf("New student in %s", class.Name),
		Body: fmt.Sprintf("%s %s (%s) joined your class %q.",
			student.FirstName, student.LastName, student.Email, class.Name),
	})
}

// isStudentInClass fails with ErrNotClassMember when the membership row is absent.
func isStudentInClass(ctx context.Context, store Store, studentID, classID int) error {
	ok, err := store.Classes.IsStudentInClass(ctx, classID, studentID)
	if err != nil {
		return errors.Wrap(err, "checking class membership")
	}
	if !ok {
		return ErrNotClassMember
	}
	return nil
}
