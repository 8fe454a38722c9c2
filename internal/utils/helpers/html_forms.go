package helpers

import "fmt"

// BuildVerificationHTML — письмо с ссылкой активации аккаунта.
func BuildVerificationHTML(link string, ttlMinutes int) string {
	return fmt.Sprintf(`
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="500" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:8px; box-shadow:0 1px 6px #eee;">
            <tr>
              <td>
                <h2 style="color:#2d74da; margin-top:0;">Confirmez votre email</h2>
                <p style="font-size:16px; color:#222;">Bonjour,</p>
                <p style="font-size:16px; color:#222;">Merci d’avoir créé votre compte sur <strong>EduQuébec</strong>.
                Pour activer votre compte, confirmez votre adresse email en cliquant sur ce lien :</p>
                <p>
                  <a href="%s" style="display:inline-block;padding:12px 24px;background:#2d74da;color:#fff;text-decoration:none;border-radius:5px;font-weight:bold;margin-top:8px;">
                    Activer mon compte
                  </a>
                </p>
                <p style="font-size:14px; color:#555;">Ce lien expire dans %d minutes.</p>
                <hr style="margin:32px 0 16px 0; border:0; border-top:1px solid #eee;">
                <div style="font-size:12px; color:#999;">Si vous n’êtes pas à l’origine de cette demande, ignorez ce message.</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`, link, ttlMinutes)
}

// BuildResendHTML — повторное письмо активации.
func BuildResendHTML(link string) string {
	return fmt.Sprintf(`
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="500" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:8px; box-shadow:0 1px 6px #eee;">
            <tr>
              <td>
                <h2 style="color:#2d74da; margin-top:0;">Nouveau lien de confirmation</h2>
                <p style="font-size:16px; color:#222;">Bonjour,</p>
                <p style="font-size:16px; color:#222;">Voici votre nouveau lien d’activation :</p>
                <p>
                  <a href="%s" style="display:inline-block;padding:12px 24px;background:#2d74da;color:#fff;text-decoration:none;border-radius:5px;font-weight:bold;margin-top:8px;">
                    Activer mon compte
                  </a>
                </p>
                <hr style="margin:32px 0 16px 0; border:0; border-top:1px solid #eee;">
                <div style="font-size:12px; color:#999;">Si vous n’êtes pas à l’origine de cette demande, ignorez ce message.</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`, link)
}
