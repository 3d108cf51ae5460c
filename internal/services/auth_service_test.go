package services

import (
	"github.com/yukikurage/team-management-api/internal/auth"
	apierrors "github.com/yukikurage/team-management-api/internal/errors"
	"github.com/yukikurage/team-management-api/internal/models"
)

func (s *ServiceTestSuite) TestRegister_StoresHash() {
	pending := s.register("Ann", "  Ann@Example.com ")

	s.Equal("ann@example.com", pending.Email)
	s.NotEqual("supersecret", pending.PasswordHash)
	s.True(auth.VerifyPassword("supersecret", pending.PasswordHash))
}

func (s *ServiceTestSuite) TestRegister_EmailOfApprovedUser() {
	_, err := s.auth.Register(RegisterInput{Name: "Imposter", Email: "employee@example.com", Password: "supersecret"})

	s.ErrorIs(err, ErrEmailTaken)
	s.Equal(int64(0), s.countRows(&models.PendingRegistration{}))
}

func (s *ServiceTestSuite) TestRegister_DuplicatePendingAllowed() {
	s.register("Ann", "ann@example.com")
	s.register("Ann", "ann@example.com")

	s.Equal(int64(2), s.countRows(&models.PendingRegistration{}))
}

func (s *ServiceTestSuite) TestRegister_Validation() {
	tests := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"missing name", RegisterInput{Email: "a@example.com", Password: "supersecret"}, ErrNameRequired},
		{"missing email", RegisterInput{Name: "A", Password: "supersecret"}, ErrEmailRequired},
		{"short password", RegisterInput{Name: "A", Email: "a@example.com", Password: "123"}, ErrPasswordTooShort},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.auth.Register(tt.input)
			s.ErrorIs(err, tt.want)
		})
	}
}

func (s *ServiceTestSuite) TestLogin_Success() {
	user, token, err := s.auth.Login(LoginInput{Email: "EMPLOYEE@example.com", Password: "password"})
	s.Require().NoError(err)
	s.Equal(s.employee.UserID, user.ID)

	identity, err := s.tokens.Verify(token)
	s.Require().NoError(err)
	s.Equal(s.employee, identity)
}

func (s *ServiceTestSuite) TestLogin_PendingWinsOverPassword() {
	s.register("Ann", "ann@example.com")

	for _, password := range []string{"supersecret", "wrong"} {
		_, _, err := s.auth.Login(LoginInput{Email: "ann@example.com", Password: password})
		s.ErrorIs(err, ErrRegistrationPending)
		s.Equal(apierrors.KindForbidden, apierrors.KindOf(err))
	}
}

func (s *ServiceTestSuite) TestLogin_UnknownEmail() {
	_, _, err := s.auth.Login(LoginInput{Email: "nobody@example.com", Password: "password"})
	s.assertKind(apierrors.KindNotFound, err)
}

func (s *ServiceTestSuite) TestLogin_WrongPassword() {
	_, _, err := s.auth.Login(LoginInput{Email: "employee@example.com", Password: "wrong"})
	s.assertKind(apierrors.KindUnauthenticated, err)
}

func (s *ServiceTestSuite) TestGetUser_Missing() {
	_, err := s.auth.GetUser(999)
	s.ErrorIs(err, ErrUserNotFound)
}
