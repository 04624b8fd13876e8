package user

import (
	"errors"
	"innovation-challenge-system/internal/global/database"
	"innovation-challenge-system/internal/global/jwt"
	"innovation-challenge-system/internal/global/redisstore"
	"innovation-challenge-system/internal/global/response"
	"innovation-challenge-system/internal/model"
	"innovation-challenge-system/tools"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// User 定义登录请求的结构体
type User struct {
	UserID   string `json:"user_id" binding:"required"`  // 账号，唯一标识用户
	Password string `json:"password" binding:"required"` // 密码，登录时验证，注册时加密
}

type RegisterReq struct {
	User
	NickName string `json:"nick_name" binding:"required"`
	Email    string `json:"email"`
	// 0 学生 1 企业，管理员只能由种子数据或后台直接设置
	RoleID int `json:"role_id"`
}

// Register 处理用户注册请求
func Register(c *gin.Context) {
	// 定义请求结构体并绑定 JSON 数据
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定注册请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if err := validatePasswordStrength(req.Password); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}
	// 不允许通过注册接口获得管理员角色
	if req.RoleID != model.RoleStudent && req.RoleID != model.RoleBusiness {
		response.Fail(c, response.ErrInvalidRequest.WithTips("角色不合法"))
		return
	}

	hash, err := tools.PasswordEncrypt(req.Password)
	if err != nil {
		log.Error("密码加密失败", "error", err)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}

	user := model.User{
		UserID:   req.UserID,
		Password: hash,
		RoleID:   req.RoleID,
		NickName: req.NickName,
		Email:    req.Email,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Warn("账号已存在", "user_id", req.UserID)
			response.Fail(c, response.ErrAlreadyExists.WithTips("账号已存在"))
			return
		}
		log.Error("创建用户失败", "error", err, "user_id", req.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("用户注册成功", "user_id", user.UserID, "role_id", user.RoleID)

	response.Success(c, gin.H{
		"user_id": user.UserID,
		"role_id": user.RoleID,
	})
}

// Login 处理用户登录请求
func Login(c *gin.Context) {
	// 定义请求结构体并绑定 JSON 数据
	var req User
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定登录请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	// 查询用户是否存在
	var user model.User
	err := database.DB.Where("user_id = ?", req.UserID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("用户不存在", "user_id", req.UserID)
		response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
		return
	case err != nil:
		log.Error("数据库查询失败", "error", err, "user_id", req.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 验证密码
	if !tools.PasswordCompare(req.Password, user.Password) {
		log.Warn("密码错误", "user_id", req.UserID)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	// 记录登录成功的日志
	log.Info("用户登录成功",
		"user_id", user.UserID,
		"role_id", user.RoleID)

	// 生成 JWT 令牌并返回用户信息
	response.Success(c, map[string]interface{}{
		"token": jwt.CreateToken(jwt.Payload{
			UserID: user.UserID,
			RoleID: user.RoleID,
		}),
		"user_id":   user.UserID,
		"role_id":   user.RoleID,
		"nick_name": user.NickName,
	})
}

// Logout 将当前令牌按剩余有效期拉黑
func Logout(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrTokenInvalid)
		return
	}

	ttl := time.Until(time.Unix(payload.ExpiresAt, 0))
	if err := redisstore.BlacklistToken(c.Request.Context(), payload.Id, ttl); err != nil {
		log.Error("登出失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}

	log.Info("用户登出成功", "user_id", payload.UserID)
	response.Success(c)
}

// Profile 返回当前登录用户信息
func Profile(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrTokenInvalid)
		return
	}

	var user model.User
	if err := database.DB.Where("user_id = ?", payload.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, user)
}

// validatePasswordStrength 验证密码强度
func validatePasswordStrength(password string) error {
	if password == "" {
		return errors.New("密码不能为空")
	}
	if len(password) < 8 {
		return errors.New("密码长度必须至少8字符")
	}

	hasLetter := false
	hasDigit := false

	for _, char := range password {
		switch {
		case strings.ContainsRune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ", char):
			hasLetter = true
		case strings.ContainsRune("0123456789", char):
			hasDigit = true
		}
	}

	if !hasLetter {
		return errors.New("密码必须包含至少一个字母")
	}
	if !hasDigit {
		return errors.New("密码必须包含至少一个数字")
	}

	return nil
}
