package santander

import (
	"crypto/tls"
	"encoding/pem"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pkcs12"

	"github.com/magnani/santander-payments/internal/config"
)

// newHTTPClient cria o cliente HTTP com timeout e mTLS configurados
func newHTTPClient(cfg config.SantanderConfig) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.HasCertificate() {
		tlsConfig, err := loadTLSConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("erro ao carregar certificado: %w", err)
		}
		transport.TLSClientConfig = tlsConfig
	}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}, nil
}

// loadTLSConfig carrega o certificado do cliente a partir da configuração
func loadTLSConfig(cfg config.SantanderConfig) (*tls.Config, error) {
	var (
		cert tls.Certificate
		err  error
	)

	switch {
	case cfg.CertFile != "" && cfg.KeyFile != "":
		cert, err = tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	case isPKCS12(cfg.CertificatePath):
		cert, err = loadPKCS12(cfg.CertificatePath, cfg.CertificatePassword)
	default:
		cert, err = loadCombinedPEM(cfg.CertificatePath)
	}
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

func isPKCS12(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".p12", ".pfx":
		return true
	}
	return false
}

// loadPKCS12 carrega um certificado .p12/.pfx
func loadPKCS12(path, password string) (tls.Certificate, error) {
	certData, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("erro ao ler certificado: %w", err)
	}

	privateKey, certificate, err := pkcs12.Decode(certData, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("erro ao decodificar certificado PKCS12: %w", err)
	}

	return tls.Certificate{
		Certificate: [][]byte{certificate.Raw},
		PrivateKey:  privateKey,
		Leaf:        certificate,
	}, nil
}

// loadCombinedPEM carrega um único arquivo PEM com certificado e chave
func loadCombinedPEM(path string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("erro ao ler certificado: %w", err)
	}

	var certPEM, keyPEM []byte
	for rest := data; ; {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		encoded := pem.EncodeToMemory(block)
		if block.Type == "CERTIFICATE" {
			certPEM = append(certPEM, encoded...)
		} else if strings.Contains(block.Type, "PRIVATE KEY") {
			keyPEM = append(keyPEM, encoded...)
		}
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("erro ao decodificar certificado PEM: %w", err)
	}
	return cert, nil
}
