// Package config gerencia as configurações do cliente Santander
// carregando variáveis de ambiente do arquivo .env ou de um arquivo YAML
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Níveis de log de requisição/resposta
const (
	LogLevelAll   = "ALL"
	LogLevelError = "ERROR"
)

const (
	defaultTimeoutSeconds = 60
	defaultLogLevel       = LogLevelError
)

// Config armazena todas as configurações da aplicação
type Config struct {
	Santander SantanderConfig `yaml:"santander"`
}

// SantanderConfig armazena as configurações do cliente da API Santander.
// É tratada como valor imutável: WithWorkspaceID devolve uma cópia.
type SantanderConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	BaseURL      string `yaml:"base_url"`

	// Certificado mTLS: um único arquivo (.p12/.pfx ou PEM combinado)...
	CertificatePath     string `yaml:"cert"`
	CertificatePassword string `yaml:"cert_password"`
	// ...ou o par certificado/chave em PEM
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`

	WorkspaceID string        `yaml:"workspace_id"`
	LogLevel    string        `yaml:"log_request_response_level"`
	Timeout     time.Duration `yaml:"-"`

	TimeoutSeconds int `yaml:"timeout"`
}

// Load carrega as configurações do arquivo .env e variáveis de ambiente
// O arquivo .env é opcional - variáveis de ambiente têm prioridade
func Load() (*Config, error) {
	// Tenta carregar .env (ignora erro se não existir)
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.applyEnv()

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile carrega as configurações de um arquivo YAML.
// Variáveis de ambiente definidas sobrescrevem os valores do arquivo.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo de configuração: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("erro ao decodificar arquivo de configuração: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	s := &c.Santander
	s.ClientID = getEnv("SANTANDER_CLIENT_ID", s.ClientID)
	s.ClientSecret = getEnv("SANTANDER_CLIENT_SECRET", s.ClientSecret)
	s.BaseURL = getEnv("SANTANDER_BASE_URL", s.BaseURL)
	s.CertificatePath = getEnv("SANTANDER_CERT", s.CertificatePath)
	s.CertificatePassword = getEnv("SANTANDER_CERT_PASSWORD", s.CertificatePassword)
	s.CertFile = getEnv("SANTANDER_CERT_FILE", s.CertFile)
	s.KeyFile = getEnv("SANTANDER_KEY_FILE", s.KeyFile)
	s.WorkspaceID = getEnv("SANTANDER_WORKSPACE_ID", s.WorkspaceID)
	s.LogLevel = getEnv("SANTANDER_LOG_LEVEL", s.LogLevel)
	s.TimeoutSeconds = getEnvInt("SANTANDER_TIMEOUT", s.TimeoutSeconds)
}

func (c *Config) finish() error {
	c.Santander = c.Santander.withDefaults()
	return c.validate()
}

// validate verifica se as configurações obrigatórias estão presentes
func (c *Config) validate() error {
	return c.Santander.Validate()
}

// Validate verifica os campos obrigatórios do cliente
func (s SantanderConfig) Validate() error {
	if s.ClientID == "" {
		return fmt.Errorf("SANTANDER_CLIENT_ID é obrigatório")
	}
	if s.ClientSecret == "" {
		return fmt.Errorf("SANTANDER_CLIENT_SECRET é obrigatório")
	}
	if s.BaseURL == "" {
		return fmt.Errorf("SANTANDER_BASE_URL é obrigatório")
	}
	if (s.CertFile == "") != (s.KeyFile == "") {
		return fmt.Errorf("SANTANDER_CERT_FILE e SANTANDER_KEY_FILE devem ser informados juntos")
	}
	return nil
}

// WithDefaults preenche timeout e nível de log ausentes
func (s SantanderConfig) WithDefaults() SantanderConfig {
	return s.withDefaults()
}

func (s SantanderConfig) withDefaults() SantanderConfig {
	s.BaseURL = strings.TrimSuffix(s.BaseURL, "/")
	if s.Timeout <= 0 {
		seconds := s.TimeoutSeconds
		if seconds <= 0 {
			seconds = defaultTimeoutSeconds
		}
		s.Timeout = time.Duration(seconds) * time.Second
	}
	s.TimeoutSeconds = int(s.Timeout / time.Second)
	if s.LogLevel == "" {
		s.LogLevel = defaultLogLevel
	}
	return s
}

// WithWorkspaceID devolve uma cópia da configuração com a workspace resolvida
func (s SantanderConfig) WithWorkspaceID(workspaceID string) SantanderConfig {
	s.WorkspaceID = workspaceID
	return s
}

// HasCertificate indica se há material de certificado mTLS configurado
func (s SantanderConfig) HasCertificate() bool {
	return s.CertificatePath != "" || (s.CertFile != "" && s.KeyFile != "")
}

// String não expõe o client secret
func (s SantanderConfig) String() string {
	cert := s.CertificatePath
	if cert == "" && s.CertFile != "" {
		cert = s.CertFile + "+" + s.KeyFile
	}
	return fmt.Sprintf("SantanderConfig<client_id=%s cert=%s workspace=%s>", s.ClientID, cert, s.WorkspaceID)
}

// getEnv obtém uma variável de ambiente ou retorna o valor padrão
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt obtém uma variável de ambiente como int
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
