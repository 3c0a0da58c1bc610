package compose

import "html/template"

// safeURL marks a URL built entirely from escaped or validated components
// as safe for direct interpolation into an href attribute.
type safeURL = template.URL

// bodyData is the contract between the composer and the body templates.
// Every string field is escaped contextually by html/template on render.
type bodyData struct {
	Brand     string
	Timestamp string

	Name  string
	Email string
	Phone string
	Body  string

	Country string
	FlagURL safeURL

	Nationality    string
	CurrentCountry string
	CVFilename     string
	CVSizeKB       string

	ReplyMailtoEN safeURL
	ReplyMailtoAR safeURL
	WhatsAppEN    safeURL
	WhatsAppAR    safeURL
}

var (
	inquiryTmpl     = template.Must(template.New("inquiry").Parse(inquiryTemplate))
	applicationTmpl = template.Must(template.New("application").Parse(applicationTemplate))
)

const inquiryTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Arial, sans-serif; background-color: #eaeaea;">
  <table width="100%" cellpadding="0" cellspacing="0" style="background-color: #eaeaea; padding: 40px 15px;">
    <tr>
      <td align="center">
        <table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 20px; overflow: hidden;">
          <tr>
            <td style="height: 5px; background: linear-gradient(90deg, #000000 0%, #444444 50%, #000000 100%);"></td>
          </tr>
          <tr>
            <td style="padding: 36px 44px 0 44px;">
              <p style="margin: 0; font-size: 16px; font-weight: 800; color: #000000; letter-spacing: 2px;">{{.Brand}}</p>
              <p style="margin: 12px 0 0 0; font-size: 11px; font-weight: 700; color: #b0b0b0; text-transform: uppercase; letter-spacing: 2.5px;">New Message Received</p>
              <h1 style="margin: 10px 0 0 0; font-size: 24px; font-weight: 700; color: #0a0a0a;">You've got a new inquiry</h1>
              <p style="margin: 12px 0 0 0; font-size: 12px; color: #b0b0b0;">{{.Timestamp}}</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 44px 24px 44px;">
              <table width="100%" cellpadding="0" cellspacing="0" style="background-color: #f6f6f6; border-radius: 14px; border-left: 4px solid #000000;">
                <tr>
                  <td style="padding: 28px 30px;">
                    <p style="margin: 0; font-size: 10px; font-weight: 700; color: #aaaaaa; text-transform: uppercase; letter-spacing: 2px;">Message</p>
                    <p style="margin: 18px 0 0 0; font-size: 15px; color: #1a1a1a; line-height: 1.8; white-space: pre-wrap;">{{.Body}}</p>
                  </td>
                </tr>
              </table>
            </td>
          </tr>
          <tr>
            <td style="padding: 0 44px 12px 44px;">
              <p style="margin: 0 0 8px 0; font-size: 13px; font-weight: 700; color: #222222;">Reply via Email</p>
              <p style="margin: 0 0 16px 0;">
                <a href="{{.ReplyMailtoEN}}" style="display: inline-block; padding: 9px 18px; background-color: #111111; color: #ffffff; text-decoration: none; font-size: 12px; font-weight: 700; border-radius: 8px;">English</a>
                <a href="{{.ReplyMailtoAR}}" style="display: inline-block; padding: 9px 18px; background-color: #ffffff; color: #111111; text-decoration: none; font-size: 12px; font-weight: 700; border-radius: 8px; border: 1.5px solid #d0d0d0;">عربي</a>
              </p>
              <p style="margin: 0 0 8px 0; font-size: 13px; font-weight: 700; color: #222222;">Reply via WhatsApp</p>
              <p style="margin: 0;">
                <a href="{{.WhatsAppEN}}" style="display: inline-block; padding: 9px 18px; background-color: #25D366; color: #ffffff; text-decoration: none; font-size: 12px; font-weight: 700; border-radius: 8px;">English</a>
                <a href="{{.WhatsAppAR}}" style="display: inline-block; padding: 9px 18px; background-color: #ffffff; color: #25D366; text-decoration: none; font-size: 12px; font-weight: 700; border-radius: 8px; border: 1.5px solid #c8e6c9;">عربي</a>
              </p>
            </td>
          </tr>
          <tr>
            <td style="padding: 16px 44px 36px 44px;">
              <table width="100%" cellpadding="0" cellspacing="0" style="background-color: #fafafa; border-radius: 14px; border: 1px solid #f0f0f0;">
                <tr>
                  <td style="padding: 22px 24px;">
                    <table width="100%" cellpadding="0" cellspacing="0">
                      <tr>
                        <td width="56" valign="middle" align="center">
                          {{if .FlagURL}}
                          <img src="{{.FlagURL}}" alt="{{.Country}}" width="36" height="27" style="display: block; margin: 0 auto; border-radius: 4px; border: 1px solid #e8e8e8;" />
                          <p style="margin: 5px 0 0 0; font-size: 9px; font-weight: 700; color: #aaaaaa; text-transform: uppercase; text-align: center;">{{.Country}}</p>
                          {{else}}
                          <div style="width: 36px; height: 27px; background-color: #e0e0e0; border-radius: 4px; margin: 0 auto;"></div>
                          <p style="margin: 5px 0 0 0; font-size: 9px; font-weight: 700; color: #cccccc; text-align: center;">N/A</p>
                          {{end}}
                        </td>
                        <td valign="middle" style="padding-left: 18px;">
                          <p style="margin: 0; font-size: 16px; font-weight: 700; color: #111111;">{{.Name}}</p>
                          <p style="margin: 4px 0 0 0; font-size: 13px; color: #999999;">{{.Email}}</p>
                        </td>
                        <td align="right" valign="middle">
                          <p style="margin: 0; font-size: 10px; font-weight: 700; color: #bbbbbb; text-transform: uppercase;">Phone</p>
                          <p style="margin: 3px 0 0 0; font-size: 14px; font-weight: 600; color: #222222;">{{.Phone}}</p>
                        </td>
                      </tr>
                    </table>
                  </td>
                </tr>
              </table>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`

const applicationTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Arial, sans-serif; background-color: #eaeaea;">
  <table width="100%" cellpadding="0" cellspacing="0" style="background-color: #eaeaea; padding: 40px 15px;">
    <tr>
      <td align="center">
        <table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 20px; overflow: hidden;">
          <tr>
            <td style="height: 5px; background: linear-gradient(90deg, #000000 0%, #444444 50%, #000000 100%);"></td>
          </tr>
          <tr>
            <td style="padding: 36px 44px 0 44px;">
              <p style="margin: 0; font-size: 16px; font-weight: 800; color: #000000; letter-spacing: 2px;">{{.Brand}}</p>
              <p style="margin: 12px 0 0 0; font-size: 11px; font-weight: 700; color: #b0b0b0; text-transform: uppercase; letter-spacing: 2.5px;">Job Application Received</p>
              <h1 style="margin: 10px 0 0 0; font-size: 24px; font-weight: 700; color: #0a0a0a;">New job application</h1>
              <p style="margin: 12px 0 0 0; font-size: 12px; color: #b0b0b0;">{{.Timestamp}}</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 44px 0 44px;">
              <table width="100%" cellpadding="0" cellspacing="0" style="background-color: #f6f6f6; border-radius: 14px; border-left: 4px solid #000000;">
                <tr>
                  <td style="padding: 28px 30px;">
                    <p style="margin: 0; font-size: 10px; font-weight: 700; color: #aaaaaa; text-transform: uppercase; letter-spacing: 2px;">Application Details</p>
                    <table width="100%" cellpadding="0" cellspacing="0" style="margin-top: 18px;">
                      <tr>
                        <td width="48%" valign="top">
                          <p style="margin: 0; font-size: 11px; font-weight: 700; color: #999999; text-transform: uppercase;">Nationality</p>
                          <p style="margin: 6px 0 0 0; font-size: 15px; font-weight: 600; color: #1a1a1a;">{{.Nationality}}</p>
                        </td>
                        <td width="4%"></td>
                        <td width="48%" valign="top">
                          <p style="margin: 0; font-size: 11px; font-weight: 700; color: #999999; text-transform: uppercase;">Current Country</p>
                          <p style="margin: 6px 0 0 0; font-size: 15px; font-weight: 600; color: #1a1a1a;">{{.CurrentCountry}}</p>
                        </td>
                      </tr>
                    </table>
                    <div style="margin-top: 20px; padding-top: 20px; border-top: 1px solid #e8e8e8;">
                      <p style="margin: 0; font-size: 11px; font-weight: 700; color: #999999; text-transform: uppercase;">Why Should We Hire You?</p>
                      <p style="margin: 10px 0 0 0; font-size: 15px; color: #1a1a1a; line-height: 1.8; white-space: pre-wrap;">{{.Body}}</p>
                    </div>
                    <div style="margin-top: 20px; padding: 14px 18px; background-color: #ffffff; border-radius: 8px; border: 1px solid #e8e8e8;">
                      <p style="margin: 0; font-size: 13px; color: #1a1a1a;">
                        <strong>CV Attached:</strong> {{.CVFilename}} <span style="color: #999999;">({{.CVSizeKB}} KB)</span>
                      </p>
                    </div>
                  </td>
                </tr>
              </table>
            </td>
          </tr>
          <tr>
            <td style="padding: 16px 44px 36px 44px;">
              <table width="100%" cellpadding="0" cellspacing="0" style="background-color: #fafafa; border-radius: 14px; border: 1px solid #f0f0f0;">
                <tr>
                  <td style="padding: 22px 24px;">
                    <table width="100%" cellpadding="0" cellspacing="0">
                      <tr>
                        <td width="56" valign="middle" align="center">
                          {{if .FlagURL}}
                          <img src="{{.FlagURL}}" alt="{{.Country}}" width="36" height="27" style="display: block; margin: 0 auto; border-radius: 4px; border: 1px solid #e8e8e8;" />
                          <p style="margin: 5px 0 0 0; font-size: 9px; font-weight: 700; color: #aaaaaa; text-transform: uppercase; text-align: center;">{{.Country}}</p>
                          {{else}}
                          <div style="width: 36px; height: 27px; background-color: #e0e0e0; border-radius: 4px; margin: 0 auto;"></div>
                          <p style="margin: 5px 0 0 0; font-size: 9px; font-weight: 700; color: #cccccc; text-align: center;">N/A</p>
                          {{end}}
                        </td>
                        <td valign="middle" style="padding-left: 18px;">
                          <p style="margin: 0; font-size: 16px; font-weight: 700; color: #111111;">{{.Name}}</p>
                          <p style="margin: 4px 0 0 0; font-size: 13px; color: #999999;">{{.Email}}</p>
                        </td>
                        <td align="right" valign="middle">
                          <p style="margin: 0; font-size: 10px; font-weight: 700; color: #bbbbbb; text-transform: uppercase;">Phone</p>
                          <p style="margin: 3px 0 0 0; font-size: 14px; font-weight: 600; color: #222222;">{{.Phone}}</p>
                        </td>
                      </tr>
                    </table>
                  </td>
                </tr>
              </table>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`
