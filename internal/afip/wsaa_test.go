package afip

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taXML(token, sign string, exp time.Time) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<loginTicketResponse version="1.0">
  <header>
    <source>CN=wsaa</source>
    <destination>C=ar</destination>
    <uniqueId>1</uniqueId>
    <generationTime>%s</generationTime>
    <expirationTime>%s</expirationTime>
  </header>
  <credentials>
    <token>%s</token>
    <sign>%s</sign>
  </credentials>
</loginTicketResponse>`, exp.Add(-12*time.Hour).Format(time.RFC3339), exp.Format(time.RFC3339), token, sign)
}

// stubLogin cuenta las llamadas y devuelve el TA (o error) configurado.
type stubLogin struct {
	calls int32
	raw   string
	err   error
}

func (s *stubLogin) LoginCms(_ context.Context, _ string) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return "", s.err
	}
	return s.raw, nil
}

func TestTokenCacheReutilizaTAVigente(t *testing.T) {
	dir := t.TempDir()
	login := &stubLogin{raw: taXML("tok1", "sig1", time.Now().Add(12*time.Hour))}
	cache := NewTokenCache(dir, login)

	ta, err := cache.GetValidTicket(context.Background(), ServicioWSFE)
	require.NoError(t, err)
	assert.Equal(t, "tok1", ta.Token)
	assert.Equal(t, int32(1), atomic.LoadInt32(&login.calls))

	// Segunda llamada: el TA persistido sigue vigente, no hay nuevo login.
	ta2, err := cache.GetValidTicket(context.Background(), ServicioWSFE)
	require.NoError(t, err)
	assert.Equal(t, "tok1", ta2.Token)
	assert.Equal(t, int32(1), atomic.LoadInt32(&login.calls))

	// Y quedó en disco con permisos restringidos.
	info, err := os.Stat(filepath.Join(dir, "wsfe_ta.xml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestTokenCacheSobreviveReinicios(t *testing.T) {
	dir := t.TempDir()
	raw := taXML("persistido", "sig", time.Now().Add(6*time.Hour))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wsfe_ta.xml"), []byte(raw), 0o600))

	// Cache nuevo (proceso reiniciado): lee el TA del disco sin loguear.
	login := &stubLogin{err: errors.New("wsaa caido")}
	cache := NewTokenCache(dir, login)

	ta, err := cache.GetValidTicket(context.Background(), ServicioWSFE)
	require.NoError(t, err)
	assert.Equal(t, "persistido", ta.Token)
	assert.Equal(t, int32(0), atomic.LoadInt32(&login.calls))
}

func TestTokenCacheRenuevaTAVencido(t *testing.T) {
	dir := t.TempDir()
	vencido := taXML("viejo", "sig", time.Now().Add(-time.Hour))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wsfe_ta.xml"), []byte(vencido), 0o600))

	login := &stubLogin{raw: taXML("nuevo", "sig", time.Now().Add(12*time.Hour))}
	cache := NewTokenCache(dir, login)

	ta, err := cache.GetValidTicket(context.Background(), ServicioWSFE)
	require.NoError(t, err)
	assert.Equal(t, "nuevo", ta.Token)
	assert.Equal(t, int32(1), atomic.LoadInt32(&login.calls))
}

func TestTokenCacheMargenDeVencimiento(t *testing.T) {
	// Un TA que vence dentro del margen de 60 s ya no se considera usable.
	porVencer := &AccessTicket{Expiration: time.Now().Add(30 * time.Second)}
	assert.False(t, porVencer.Vigente(time.Now()))

	vigente := &AccessTicket{Expiration: time.Now().Add(5 * time.Minute)}
	assert.True(t, vigente.Vigente(time.Now()))
}

func TestTokenCacheLoginFallidoNoCacheaNada(t *testing.T) {
	dir := t.TempDir()
	login := &stubLogin{err: errors.New("certificado rechazado")}
	cache := NewTokenCache(dir, login)

	_, err := cache.GetValidTicket(context.Background(), ServicioWSFE)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthorizationUnavailable)

	_, statErr := os.Stat(filepath.Join(dir, "wsfe_ta.xml"))
	assert.True(t, os.IsNotExist(statErr), "un login fallido no debe dejar TA en disco")

	// El próximo intento vuelve a loguear: no quedó un error cacheado.
	login.err = nil
	login.raw = taXML("tok", "sig", time.Now().Add(time.Hour))
	_, err = cache.GetValidTicket(context.Background(), ServicioWSFE)
	assert.NoError(t, err)
}

func TestTokenCacheUnSoloLoginConcurrente(t *testing.T) {
	dir := t.TempDir()
	login := &stubLogin{raw: taXML("tok", "sig", time.Now().Add(time.Hour))}
	cache := NewTokenCache(dir, login)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ta, err := cache.GetValidTicket(context.Background(), ServicioWSFE)
			assert.NoError(t, err)
			assert.Equal(t, "tok", ta.Token)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&login.calls), "las llamadas concurrentes deben compartir un único login")
}

func TestTokenCacheTAsIndependientesPorServicio(t *testing.T) {
	dir := t.TempDir()
	login := &stubLogin{raw: taXML("tok", "sig", time.Now().Add(time.Hour))}
	cache := NewTokenCache(dir, login)

	_, err := cache.GetValidTicket(context.Background(), ServicioWSFE)
	require.NoError(t, err)
	_, err = cache.GetValidTicket(context.Background(), ServicioPadron)
	require.NoError(t, err)

	// Un login por servicio, dos archivos.
	assert.Equal(t, int32(2), atomic.LoadInt32(&login.calls))
	_, err = os.Stat(filepath.Join(dir, "wsfe_ta.xml"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "ws_sr_constancia_inscripcion_ta.xml"))
	assert.NoError(t, err)
}
