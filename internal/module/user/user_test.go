package user

import (
	"innovation-challenge-system/internal/global/database"
	"innovation-challenge-system/internal/global/jwt"
	"innovation-challenge-system/internal/global/response"
	"innovation-challenge-system/internal/model"
	"innovation-challenge-system/test"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupUserTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	test.SetupDB(t)
	(&ModuleUser{}).Init()
}

func registerBody(userID string) gin.H {
	return gin.H{
		"user_id":   userID,
		"password":  "passw0rd123",
		"nick_name": "小明",
		"role_id":   model.RoleStudent,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	setupUserTest(t)

	resp := test.DoRequest(t, Register, test.Request{Body: registerBody("stu-1")})
	test.NoError(t, resp)

	// 密码落库为哈希
	var user model.User
	require.NoError(t, database.DB.Where("user_id = ?", "stu-1").First(&user).Error)
	require.NotEqual(t, "passw0rd123", user.Password)

	resp = test.DoRequest(t, Login, test.Request{Body: gin.H{
		"user_id":  "stu-1",
		"password": "passw0rd123",
	}})
	test.NoError(t, resp)
	data := resp.Data.(map[string]any)
	require.NotEmpty(t, data["token"])
	require.EqualValues(t, model.RoleStudent, data["role_id"])
}

func TestRegisterDuplicateUserID(t *testing.T) {
	setupUserTest(t)

	test.NoError(t, test.DoRequest(t, Register, test.Request{Body: registerBody("stu-1")}))

	resp := test.DoRequest(t, Register, test.Request{Body: registerBody("stu-1")})
	test.ErrorEqual(t, response.ErrAlreadyExists, resp)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	setupUserTest(t)

	body := registerBody("stu-1")
	body["role_id"] = model.RoleAdmin
	resp := test.DoRequest(t, Register, test.Request{Body: body})
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
}

func TestRegisterWeakPassword(t *testing.T) {
	setupUserTest(t)

	for _, password := range []string{"short1", "passwordonly", "12345678"} {
		body := registerBody("stu-1")
		body["password"] = password
		resp := test.DoRequest(t, Register, test.Request{Body: body})
		test.ErrorEqual(t, response.ErrInvalidRequest, resp)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	setupUserTest(t)

	test.NoError(t, test.DoRequest(t, Register, test.Request{Body: registerBody("stu-1")}))

	resp := test.DoRequest(t, Login, test.Request{Body: gin.H{
		"user_id":  "stu-1",
		"password": "wrongpass1",
	}})
	test.ErrorEqual(t, response.ErrInvalidPassword, resp)

	resp = test.DoRequest(t, Login, test.Request{Body: gin.H{
		"user_id":  "nobody",
		"password": "passw0rd123",
	}})
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

func TestProfile(t *testing.T) {
	setupUserTest(t)

	test.NoError(t, test.DoRequest(t, Register, test.Request{Body: registerBody("stu-1")}))

	resp := test.DoRequest(t, Profile, test.Request{
		Claims: &jwt.Claims{Payload: jwt.Payload{UserID: "stu-1", RoleID: model.RoleStudent}},
	})
	test.NoError(t, resp)
	data := resp.Data.(map[string]any)
	require.Equal(t, "stu-1", data["user_id"])
	require.Equal(t, "小明", data["nick_name"])
}

func TestPasswordStrength(t *testing.T) {
	require.Error(t, validatePasswordStrength(""))
	require.Error(t, validatePasswordStrength("a1b2c3"))
	require.Error(t, validatePasswordStrength("abcdefgh"))
	require.Error(t, validatePasswordStrength("12345678"))
	require.NoError(t, validatePasswordStrength("abcdefg1"))
}
