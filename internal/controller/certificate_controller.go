package controller

import (
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// ListMine GET /api/certificates 默认取本人的证书；管理员可用 userId 查任意用户
func (ctrl *CertificateController) ListMine(c *gin.Context) {
	claims := util.GetUserFromContext(c)

	target := claims.UserID
	if requested := util.MustParseUint(c.Query("userId")); requested != 0 && claims.Role == model.Admin {
		target = requested
	}

	certs, err := ctrl.CertificateService.ListMine(target)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, certs)
}

// GetCertificate GET /api/certificates/:id
func (ctrl *CertificateController) GetCertificate(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	cert, err := ctrl.CertificateService.GetCertificate(claims, util.MustParseUint(c.Param("id")))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, cert)
}

// Download GET /api/certificates/:id/pdf 返回渲染证书所需的权威字段
func (ctrl *CertificateController) Download(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	doc, err := ctrl.CertificateService.GetDocument(claims, util.MustParseUint(c.Param("id")))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, doc)
}
