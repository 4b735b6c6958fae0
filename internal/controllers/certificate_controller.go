package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sevasetu/internal/certificates"
	"sevasetu/internal/services"
)

type CertificateController struct {
	svc *services.Service
}

func NewCertificateController(svc *services.Service) *CertificateController {
	return &CertificateController{svc: svc}
}

func (cc *CertificateController) Mine(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	certs, err := cc.svc.MyCertificates(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, certs)
}

// Download streams the certificate PDF as an attachment.
func (cc *CertificateController) Download(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	certID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, &services.Error{Kind: services.KindValidation, Message: "invalid certificate id"})
		return
	}

	cert, doc, err := cc.svc.OpenCertificate(c.Request.Context(), id, uint(certID))
	if err != nil {
		respondError(c, err)
		return
	}
	defer doc.Close()

	name := certificates.FileName(cert.VolunteerID, cert.Points)
	c.DataFromReader(http.StatusOK, -1, "application/pdf", doc, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, name),
	})
}
