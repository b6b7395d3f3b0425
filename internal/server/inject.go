package server

import (
	"fmt"
	"html"
	"pluginsummary/internal/popup"

	"github.com/PuerkitoBio/goquery"
)

const summaryStyle = `<style>
    #summary-button {
        position: fixed;
        bottom: 20px;
        right: 20px;
        z-index: 10000;
        padding: 10px 20px;
        background-color: #0073AA;
        color: white;
        border: none;
        border-radius: 3px;
        font-size: 16px;
        cursor: pointer;
    }
    #summary-container {
        position: fixed;
        top: 10%;
        left: 10%;
        width: 80%;
        height: 80%;
        background: white;
        z-index: 10001;
        box-shadow: 0 4px 8px rgba(0, 0, 0, 0.2);
        border-radius: 8px;
        overflow-y: auto;
        display: none;
        padding: 20px;
    }
    #summary-content {
        margin-top: 20px;
        line-height: 1.6;
    }
    .summary-close {
        position: absolute;
        top: 10px;
        right: 20px;
        cursor: pointer;
        font-size: 20px;
        color: #333;
    }
</style>`

const summaryMarkup = `<button id="summary-button" data-page-url="%s">%s</button>
<div id="summary-container">
    <span class="summary-close">×</span>
    <h2>%s</h2>
    <div id="summary-content">%s</div>
</div>`

// summaryScript talks to the API on this server's origin. The injected
// <base> points relative links at the plugin directory instead.
const summaryScript = `<script>
(function () {
    'use strict';

    const button = document.getElementById('summary-button');
    const container = document.getElementById('summary-container');
    const content = document.getElementById('summary-content');
    const api = window.location.origin + '/api';

    container.querySelector('.summary-close').onclick = () => {
        container.style.display = 'none';
    };

    async function postJSON(path, payload) {
        const resp = await fetch(api + path, {
            method: 'POST',
            headers: { 'Content-Type': 'application/json' },
            body: JSON.stringify(payload)
        });
        return { ok: resp.ok, body: await resp.json() };
    }

    async function generate() {
        const result = await postJSON('/summary', { url: button.dataset.pageUrl });
        const popup = result.body;

        if (popup.inputRequired) {
            container.style.display = 'none';
            const key = window.prompt('Please enter your OpenAI API key:');
            const saved = await postJSON('/credential', { value: key || '' });
            alert(saved.body.notice);
            if (!saved.ok) {
                return;
            }
            container.style.display = 'block';
            return generate();
        }

        if (!result.ok || popup.state === 'aborted') {
            container.style.display = 'none';
            alert(popup.notice || popup.error);
            return;
        }

        content.innerHTML = popup.content;
        container.style.display = popup.visible ? 'block' : 'none';
    }

    button.onclick = async () => {
        content.textContent = 'Generating summary...';
        container.style.display = 'block';

        try {
            await generate();
        } catch (error) {
            content.innerHTML = '<p style="color: red;">Error: ' + error.message + '</p>';
        }
    };
})();
</script>`

// Inject adds the summary button, popup and their script to a plugin page.
func Inject(doc *goquery.Document, pageURL string) {
	doc.Find("head").PrependHtml(fmt.Sprintf(`<base href="%s">`, html.EscapeString(pageURL)))
	doc.Find("head").AppendHtml(summaryStyle)

	body := doc.Find("body")
	body.AppendHtml(fmt.Sprintf(summaryMarkup,
		html.EscapeString(pageURL),
		popup.ButtonLabel,
		popup.Title,
		popup.PendingContent,
	))
	body.AppendHtml(summaryScript)
}
