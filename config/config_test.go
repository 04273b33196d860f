package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	return path
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "0123456789abcdef0123"
rotation:
  standby_limit: 6
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("期望默认端口 8080，实际=%d", cfg.Server.Port)
	}
	if cfg.Rotation.StandbyLimit != 6 {
		t.Errorf("期望 standby_limit=6，实际=%d", cfg.Rotation.StandbyLimit)
	}
	if cfg.Rotation.PredictMaxMonths != 24 {
		t.Errorf("期望 predict_max_months=24，实际=%d", cfg.Rotation.PredictMaxMonths)
	}
	if cfg.Rotation.LockTTL != 30*time.Second {
		t.Errorf("期望 lock_ttl=30s，实际=%s", cfg.Rotation.LockTTL)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "0123456789abcdef0123"
server:
  port: 9000
`)
	t.Setenv("DUTY_SERVER_PORT", "9100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("期望环境变量覆盖端口=9100，实际=%d", cfg.Server.Port)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")
	if _, err := Load(path); err == nil {
		t.Error("缺少 jwt_secret 时应返回错误")
	}
}

func TestValidate_PredictCap(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: 8080},
		Auth:     AuthConfig{JWTSecret: "0123456789abcdef"},
		Rotation: RotationConfig{Timezone: "UTC", PredictMaxMonths: 25, StandbyLimit: 4},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("predict_max_months > 24 应校验失败")
	}
	cfg.Rotation.PredictMaxMonths = 24
	if err := cfg.Validate(); err != nil {
		t.Errorf("合法配置不应报错: %v", err)
	}
}

func TestRotationConfig_Location(t *testing.T) {
	c := RotationConfig{Timezone: "Asia/Shanghai"}
	if c.Location().String() != "Asia/Shanghai" {
		t.Errorf("期望 Asia/Shanghai，实际=%s", c.Location())
	}
	c.Timezone = "Nowhere/Invalid"
	if c.Location() != time.UTC {
		t.Error("非法时区应回退 UTC")
	}
}
