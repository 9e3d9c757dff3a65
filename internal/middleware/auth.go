package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MedjedStudio/mav/internal/db"
	"github.com/MedjedStudio/mav/internal/model"
	"github.com/MedjedStudio/mav/internal/service"
	"github.com/MedjedStudio/mav/internal/utils"

	"github.com/gin-gonic/gin"
)

var (
	// existenceCache 缓存用户存在性，减少数据库查询
	// Key: userID (uint), Value: cachedExistence
	existenceCache sync.Map
)

const existenceCacheTTL = 1 * time.Minute

type cachedExistence struct {
	Exists    bool
	ExpiresAt time.Time
}

// ClearUserExistenceCache 清除指定用户的存在性缓存（删除用户后调用）
func ClearUserExistenceCache(userID uint) {
	existenceCache.Delete(userID)

	if redisClient := service.GetRedisClient(); redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		key := service.RedisKey("auth", "user_exists", strconv.FormatUint(uint64(userID), 10))
		_ = redisClient.Del(ctx, key).Err()
	}
}

func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取请求头 Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "需要认证才能访问"})
			c.Abort()
			return
		}

		// 检查格式是否为 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token 格式错误"})
			c.Abort()
			return
		}

		// 解析 Token
		claims, err := utils.ParseLoginToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token 无效或已过期"})
			c.Abort()
			return
		}

		c.Set("id", claims.ID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// UserExistenceCheck 检查令牌对应的用户是否仍然存在（未被删除）。
// 令牌在用户被删除后的剩余有效期内应立即失效。
func UserExistenceCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
			c.Abort()
			return
		}

		uid, ok := userID.(uint)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的用户ID类型"})
			c.Abort()
			return
		}

		var (
			userExists bool
			found      bool
		)

		// 优先从 Redis 读取
		if redisClient := service.GetRedisClient(); redisClient != nil {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			key := service.RedisKey("auth", "user_exists", strconv.FormatUint(uint64(uid), 10))
			cachedStr, err := redisClient.Get(ctx, key).Result()
			if err == nil {
				userExists = cachedStr == "1"
				found = true
				existenceCache.Store(uid, cachedExistence{
					Exists:    userExists,
					ExpiresAt: time.Now().Add(existenceCacheTTL),
				})
			}
		}

		// Redis 未命中或不可用时，回退本地内存缓存
		if !found {
			if val, ok := existenceCache.Load(uid); ok {
				cached, typeOk := val.(cachedExistence)
				if typeOk {
					if time.Now().Before(cached.ExpiresAt) {
						userExists = cached.Exists
						found = true
					} else {
						existenceCache.Delete(uid)
					}
				}
			}
		}

		// 缓存未命中或过期时查询数据库
		if !found {
			var count int64
			if err := db.DB.Model(&model.User{}).Where("id = ?", uid).Count(&count).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "查询用户失败"})
				c.Abort()
				return
			}
			userExists = count > 0

			existenceCache.Store(uid, cachedExistence{
				Exists:    userExists,
				ExpiresAt: time.Now().Add(existenceCacheTTL),
			})

			if redisClient := service.GetRedisClient(); redisClient != nil {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()

				key := service.RedisKey("auth", "user_exists", strconv.FormatUint(uint64(uid), 10))
				val := "0"
				if userExists {
					val = "1"
				}
				_ = redisClient.Set(ctx, key, val, existenceCacheTTL).Err()
			}
		}

		if !userExists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "用户不存在或已被删除"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func AdminCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exist := c.Get("role")
		role, ok := value.(string)
		if !exist || !ok || role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "需要管理员权限才能访问"})
			c.Abort()
			return
		}
		c.Next()
	}
}
